package main

import "github.com/kmorse/paddlebot/cmd/paddlebot/cmd"

func main() {
	cmd.Execute()
}
