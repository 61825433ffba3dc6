package cmd

import (
	"fmt"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

const banner = `
  ____          _     _ _      ____        _
 |  _ \ __ _ __| | __| | | ___| __ )  ___ | |_
 | |_) / _` + "`" + ` / _` + "`" + ` |/ _` + "`" + ` | |/ _ \  _ \ / _ \| __|
 |  __/ (_| | (_| | (_| | |  __/ |_) | (_) | |_
 |_|   \__,_|\__,_|\__,_|_|\___|____/ \___/ \__|

`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Bot Tournament Client - Version %s\x1b[0m\n\n", Version)
}
