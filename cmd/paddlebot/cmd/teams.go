package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Browse and manage tournament teams",
}

var teamsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		teams, err := client.Teams(ctx)
		if err != nil {
			return err
		}

		if len(teams) == 0 {
			fmt.Println("No teams registered yet")
			return nil
		}
		fmt.Printf("%-36s  %-24s  %s\n", "ID", "NAME", "CREATOR")
		for _, team := range teams {
			fmt.Printf("%-36s  %-24s  %s\n", team.ID, team.Name, team.Creator)
		}
		return nil
	},
}

var teamsShowCmd = &cobra.Command{
	Use:   "show <team-id>",
	Short: "Show one team and its match history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "team")
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
		team, err := client.Team(ctx, id)
		if err != nil {
			return err
		}
		matches, err := client.TeamMatches(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("Team:    %s\n", team.Name)
		fmt.Printf("ID:      %s\n", team.ID)
		fmt.Printf("Creator: %s\n", team.Creator)
		if len(team.MembersDetails) > 0 {
			fmt.Printf("Members: %s\n", strings.Join(team.MembersDetails, ", "))
		}
		fmt.Printf("Created: %s\n", team.CreatedAt.Format("2006-01-02 15:04"))

		if len(matches) == 0 {
			fmt.Println("\nNo matches played yet")
			return nil
		}
		fmt.Printf("\n%-36s  %-12s  %-10s  %s\n", "MATCH", "TYPE", "STATUS", "RESULT")
		for _, m := range matches {
			fmt.Printf("%-36s  %-12s  %-10s  %s\n", m.ID, m.MatchType, m.StatusDisplay, matchResult(m))
		}
		return nil
	},
}

var teamCreateMembers []string

var teamsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create your team",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		team, err := client.CreateTeam(ctx, args[0], teamCreateMembers)
		if err != nil {
			return err
		}

		fmt.Printf("Created team %s (%s)\n", team.Name, team.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
	teamsCmd.AddCommand(teamsListCmd)
	teamsCmd.AddCommand(teamsShowCmd)
	teamsCmd.AddCommand(teamsCreateCmd)
	teamsCreateCmd.Flags().StringSliceVar(&teamCreateMembers, "member", nil, "Username to add as a member (repeatable)")
}
