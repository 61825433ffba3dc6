package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kmorse/paddlebot/api"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "Challenge other teams to head-to-head matches",
}

var challengesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List challenges involving your teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		challenges, err := client.Challenges(ctx)
		if err != nil {
			return err
		}

		if len(challenges) == 0 {
			fmt.Println("No challenges")
			return nil
		}
		fmt.Printf("%-36s  %-20s  %-20s  %s\n", "ID", "CHALLENGER", "CHALLENGED", "STATUS")
		for _, ch := range challenges {
			fmt.Printf("%-36s  %-20s  %-20s  %s\n",
				ch.ID, ch.ChallengerTeamDetails.Name, ch.ChallengedTeamDetails.Name, ch.StatusDisplay)
		}
		return nil
	},
}

var challengeMessage string

var challengesCreateCmd = &cobra.Command{
	Use:   "create <team-id>",
	Short: "Challenge a team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, err := parseID(args[0], "team")
		if err != nil {
			return err
		}
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		ch, err := client.CreateChallenge(ctx, teamID, challengeMessage)
		if err != nil {
			return err
		}
		fmt.Printf("Challenge %s sent to %s\n", ch.ID, ch.ChallengedTeamDetails.Name)
		return nil
	},
}

var challengesAcceptCmd = challengeActionCmd("accept", "Accept a pending challenge",
	func(client *api.Client, ctx context.Context, id uuid.UUID) (*api.Challenge, error) {
		return client.AcceptChallenge(ctx, id)
	})

var challengesDeclineCmd = challengeActionCmd("decline", "Decline a pending challenge",
	func(client *api.Client, ctx context.Context, id uuid.UUID) (*api.Challenge, error) {
		return client.DeclineChallenge(ctx, id)
	})

var challengesCancelCmd = challengeActionCmd("cancel", "Cancel a challenge you sent",
	func(client *api.Client, ctx context.Context, id uuid.UUID) (*api.Challenge, error) {
		return client.CancelChallenge(ctx, id)
	})

func challengeActionCmd(action, short string, run func(*api.Client, context.Context, uuid.UUID) (*api.Challenge, error)) *cobra.Command {
	return &cobra.Command{
		Use:   action + " <challenge-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "challenge")
			if err != nil {
				return err
			}
			client, closeStore, err := newClient()
			if err != nil {
				return err
			}
			defer closeStore()

			ctx, cancel := requestContext(cmd)
			defer cancel()
			ch, err := run(client, ctx, id)
			if err != nil {
				return err
			}
			fmt.Printf("Challenge %s is now %s\n", ch.ID, ch.StatusDisplay)
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(challengesCmd)
	challengesCmd.AddCommand(challengesListCmd)
	challengesCmd.AddCommand(challengesCreateCmd)
	challengesCmd.AddCommand(challengesAcceptCmd)
	challengesCmd.AddCommand(challengesDeclineCmd)
	challengesCmd.AddCommand(challengesCancelCmd)
	challengesCreateCmd.Flags().StringVar(&challengeMessage, "message", "", "Message to the challenged team")
}
