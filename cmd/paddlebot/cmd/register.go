package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmorse/paddlebot/api"
)

var (
	registerEmail     string
	registerPassword  string
	registerFirstName string
	registerLastName  string
)

var registerCmd = &cobra.Command{
	Use:   "register <username>",
	Short: "Create a platform account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		password := registerPassword
		if password == "" {
			password, err = promptLine(cmd, "Password: ")
			if err != nil {
				return err
			}
			again, err := promptLine(cmd, "Repeat password: ")
			if err != nil {
				return err
			}
			if again != password {
				return fmt.Errorf("passwords do not match")
			}
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()
		err = client.Register(ctx, api.Registration{
			Username:  args[0],
			Email:     registerEmail,
			Password:  password,
			Password2: password,
			FirstName: registerFirstName,
			LastName:  registerLastName,
		})
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Printf("Account %s created. Run 'paddlebot login %s' to sign in.\n", args[0], args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (prompted if not given)")
	registerCmd.Flags().StringVar(&registerFirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&registerLastName, "last-name", "", "Last name")
	_ = registerCmd.MarkFlagRequired("email")
}
