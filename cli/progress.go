package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/jrsteele09/go-questpath-client/internal/utils"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/jrsteele09/go-questpath-client/session"
	"github.com/spf13/cobra"
)

func (c *cli) leaderboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top learners by XP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := c.requireUser(ctx); err != nil {
				return err
			}
			lb, err := c.app.Client.Leaderboard(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RANK\tNAME\tXP\tLEVEL")
			for _, e := range lb.Entries {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", e.Rank, entryName(e), e.TotalExp, levelOf(e.TotalExp))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if lb.CurrentUser.Rank > 0 {
				c.printf("\nYou are #%d with %d XP\n", lb.CurrentUser.Rank, lb.CurrentUser.TotalExp)
			}
			return nil
		},
	}
}

func entryName(e model.LeaderboardEntry) string {
	if name := utils.Value(e.DisplayName); name != "" {
		return name
	}
	return e.Email
}

func levelOf(totalExp int) int {
	return session.LevelFor(totalExp)
}

func (c *cli) statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show your progression statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := c.requireUser(ctx); err != nil {
				return err
			}
			stats, err := c.app.Client.ProgressionStats(ctx)
			if err != nil {
				return err
			}
			c.printf("Total XP:          %d (level %d)\n", stats.TotalExp, levelOf(stats.TotalExp))
			c.printf("Levels completed:  %d\n", stats.LevelsCompleted)
			c.printf("Goal completion:   %.0f%%\n", stats.GoalCompletionPercentage)
			return nil
		},
	}
}

func (c *cli) adminCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrator views",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Show platform statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := c.requireUser(ctx); err != nil {
				return err
			}
			stats, err := c.app.Client.AdminStats(ctx)
			if err != nil {
				return err
			}
			c.printf("Users:   %d total, %d today, %d this week, %d premium\n",
				stats.Users.Total, stats.Users.Today, stats.Users.ThisWeek, stats.Users.PremiumActive)
			c.printf("Goals:   %d total, %d today, %d this week\n",
				stats.Goals.Total, stats.Goals.Today, stats.Goals.ThisWeek)
			c.printf("Events:  %d today\n", stats.EventsToday.Total)
			for kind, n := range stats.EventsToday.ByType {
				c.printf("  %-20s %d\n", kind, n)
			}
			return nil
		},
	})
	return cmd
}
