package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show tournament standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		entries, err := client.Leaderboard(ctx)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No standings yet")
			return nil
		}
		fmt.Printf("%4s  %-24s  %6s  %7s  %4s\n", "RANK", "TEAM", "SCORE", "PLAYED", "WON")
		for i, e := range entries {
			fmt.Printf("%4d  %-24s  %6d  %7d  %4d\n", i+1, e.TeamName, e.Score, e.MatchesPlayed, e.MatchesWon)
		}
		return nil
	},
}

var bracketCmd = &cobra.Command{
	Use:   "bracket",
	Short: "Show the knockout-round bracket",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		matches, err := client.Bracket(ctx)
		if err != nil {
			return err
		}

		if len(matches) == 0 {
			fmt.Println("The knockout round has not started yet")
			return nil
		}
		fmt.Printf("%-5s  %-24s  %-24s  %s\n", "STAGE", "PLAYER 1", "PLAYER 2", "RESULT")
		for _, m := range matches {
			stage := "-"
			if m.RoundStage != nil {
				stage = fmt.Sprintf("%d", *m.RoundStage)
			}
			fmt.Printf("%-5s  %-24s  %-24s  %s\n", stage, m.Player1TeamName, m.Player2TeamName, matchResult(m))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(bracketCmd)
}
