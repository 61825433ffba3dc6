package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Log in and store the credential pair",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		password := loginPassword
		if password == "" {
			password, err = promptLine(cmd, "Password: ")
			if err != nil {
				return err
			}
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()
		if err := client.Session().LoginWithPassword(ctx, args[0], password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		if user := client.Session().User(); user != nil {
			fmt.Printf("Logged in as %s\n", user.Username)
		} else {
			fmt.Println("Logged in")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Password (prompted if not given)")
}

func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
