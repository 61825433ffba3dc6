package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmorse/paddlebot/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in account and token status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		sess := client.Session()
		claims, err := sess.Claims()
		if errors.Is(err, session.ErrNoAccessToken) {
			fmt.Println("Not logged in")
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading access token: %w", err)
		}

		ctx, cancel := requestContext(cmd)
		defer cancel()
		user, err := sess.UserDetails(ctx)
		if err != nil {
			return fmt.Errorf("fetching profile: %w", err)
		}

		fmt.Printf("Username: %s\n", user.Username)
		fmt.Printf("Email:    %s\n", user.Email)
		if user.FirstName != "" || user.LastName != "" {
			fmt.Printf("Name:     %s %s\n", user.FirstName, user.LastName)
		}
		for _, team := range user.Teams {
			fmt.Printf("Team:     %s (%s)\n", team.Name, team.ID)
		}

		remaining := time.Until(claims.ExpiresAt).Round(time.Second)
		if remaining > 0 {
			fmt.Printf("Access token expires in %s\n", remaining)
		} else {
			fmt.Println("Access token expired; it will refresh on the next request")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
