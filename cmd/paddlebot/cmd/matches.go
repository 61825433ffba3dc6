package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmorse/paddlebot/api"
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Inspect and run matches",
}

var matchesTeam string

var matchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a team's matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, err := parseID(matchesTeam, "team")
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
		matches, err := client.TeamMatches(ctx, teamID)
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			fmt.Println("No matches yet")
			return nil
		}
		fmt.Printf("%-36s  %-12s  %-10s  %s\n", "ID", "TYPE", "STATUS", "RESULT")
		for _, m := range matches {
			fmt.Printf("%-36s  %-12s  %-10s  %s\n", m.ID, m.MatchType, m.StatusDisplay, matchResult(m))
		}
		return nil
	},
}

var matchesShowCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show one match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "match")
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
		m, err := client.Match(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("Match:   %s\n", m.ID)
		fmt.Printf("Type:    %s\n", m.MatchTypeDisplay)
		fmt.Printf("Status:  %s\n", m.StatusDisplay)
		fmt.Printf("Players: %s vs %s\n", m.Player1TeamName, m.Player2TeamName)
		if m.Completed() {
			fmt.Printf("Score:   %d : %d\n", m.Player1Score, m.Player2Score)
			if m.WinningTeamDetails != nil {
				fmt.Printf("Winner:  %s\n", m.WinningTeamDetails.Name)
			}
		}
		if m.PlayedAt != nil {
			fmt.Printf("Played:  %s\n", m.PlayedAt.Format("2006-01-02 15:04"))
		}
		if m.GameLogURL != "" {
			fmt.Printf("\nRun 'paddlebot replay %s' to watch this match\n", m.ID)
		}
		return nil
	},
}

var matchesTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Run your active submission against the system bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		teamID, err := parseID(matchesTeam, "team")
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
		m, err := client.InitiateTestMatch(ctx, teamID)
		if err != nil {
			return err
		}
		fmt.Printf("Test match %s queued (%s)\n", m.ID, m.StatusDisplay)
		return nil
	},
}

// matchResult formats a one-line result column.
func matchResult(m api.Match) string {
	if !m.Completed() {
		return "-"
	}
	result := fmt.Sprintf("%d : %d", m.Player1Score, m.Player2Score)
	if m.WinningTeamDetails != nil {
		result += " (" + m.WinningTeamDetails.Name + ")"
	}
	return result
}

func init() {
	rootCmd.AddCommand(matchesCmd)
	matchesCmd.AddCommand(matchesListCmd)
	matchesCmd.AddCommand(matchesShowCmd)
	matchesCmd.AddCommand(matchesTestCmd)
	matchesListCmd.Flags().StringVar(&matchesTeam, "team", "", "Team id")
	matchesTestCmd.Flags().StringVar(&matchesTeam, "team", "", "Team id")
	_ = matchesListCmd.MarkFlagRequired("team")
	_ = matchesTestCmd.MarkFlagRequired("team")
}
