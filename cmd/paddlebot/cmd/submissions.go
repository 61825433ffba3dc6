package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var submissionsTeam string

var submissionsCmd = &cobra.Command{
	Use:   "submissions",
	Short: "Manage your team's bot submissions",
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your team's submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, err := parseID(submissionsTeam, "team")
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
		subs, err := client.Submissions(ctx, teamID)
		if err != nil {
			return err
		}

		if len(subs) == 0 {
			fmt.Println("No submissions yet")
			return nil
		}
		fmt.Printf("%-36s  %-20s  %-16s  %s\n", "ID", "SUBMITTED BY", "SUBMITTED AT", "STATUS")
		for _, sub := range subs {
			status := ""
			if sub.IsActive {
				status = "active"
			}
			if sub.PlagiarismFlagged {
				status += " flagged"
			}
			fmt.Printf("%-36s  %-20s  %-16s  %s\n",
				sub.ID, sub.SubmittedByUsername, sub.SubmittedAt.Format("2006-01-02 15:04"), status)
		}
		return nil
	},
}

var submitUpdate string

var submissionsSubmitCmd = &cobra.Command{
	Use:   "submit <bot-file>",
	Short: "Upload a bot script as a new submission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, err := parseID(submissionsTeam, "team")
		if err != nil {
			return err
		}
		code, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading bot file: %w", err)
		}

		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		if submitUpdate != "" {
			subID, err := parseID(submitUpdate, "submission")
			if err != nil {
				return err
			}
			sub, err := client.UpdateSubmission(ctx, teamID, subID, string(code))
			if err != nil {
				return err
			}
			fmt.Printf("Updated submission %s\n", sub.ID)
			return nil
		}

		sub, err := client.CreateSubmission(ctx, teamID, filepath.Base(args[0]), code)
		if err != nil {
			return err
		}
		fmt.Printf("Created submission %s\n", sub.ID)
		fmt.Println("Run 'paddlebot submissions set-active' to make it play matches")
		return nil
	},
}

var submissionsSetActiveCmd = &cobra.Command{
	Use:   "set-active <submission-id>",
	Short: "Make a submission the one that plays matches",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, err := parseID(submissionsTeam, "team")
		if err != nil {
			return err
		}
		subID, err := parseID(args[0], "submission")
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
		sub, err := client.SetActiveSubmission(ctx, teamID, subID)
		if err != nil {
			return err
		}
		fmt.Printf("Submission %s is now active\n", sub.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submissionsCmd)
	submissionsCmd.AddCommand(submissionsListCmd)
	submissionsCmd.AddCommand(submissionsSubmitCmd)
	submissionsCmd.AddCommand(submissionsSetActiveCmd)
	submissionsCmd.PersistentFlags().StringVar(&submissionsTeam, "team", "", "Team id")
	_ = submissionsCmd.MarkPersistentFlagRequired("team")
	submissionsSubmitCmd.Flags().StringVar(&submitUpdate, "update", "", "Replace this existing submission instead of creating a new one")
}
