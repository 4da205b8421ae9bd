package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/go-questpath-client/apierror"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/spf13/cobra"
)

func (c *cli) goalsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "List, create and work through learning goals",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List your goals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if _, err := c.requireUser(ctx); err != nil {
					return err
				}
				goals, err := c.app.Client.MyGoals(ctx)
				if err != nil {
					return err
				}
				if len(goals) == 0 {
					c.printf("No goals yet. Create one with `questpath goals create`.\n")
					return nil
				}
				tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tSTATUS\tCREATED")
				for _, g := range goals {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", g.ID, g.Title, g.Category, g.Status, g.CreatedAt.Format("2006-01-02"))
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "create DESCRIPTION",
			Short: "Describe what you want to learn and get a roadmap",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				if _, err := c.requireUser(ctx); err != nil {
					return err
				}
				goal, err := c.app.Client.CreateGoal(ctx, strings.Join(args, " "))
				if err != nil {
					if code := apierror.DetailCode(err); code == "GOAL_LIMIT_REACHED" || code == "PREMIUM_EXPIRED" {
						c.printf("Upgrade with `questpath premium checkout` to create more goals.\n")
					}
					return err
				}
				c.printGoal(goal)
				return nil
			},
		},
		&cobra.Command{
			Use:   "show GOAL_ID",
			Short: "Show a goal's roadmap",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if _, err := c.requireUser(ctx); err != nil {
					return err
				}
				goal, err := c.app.Client.Goal(ctx, id)
				if err != nil {
					return err
				}
				c.printGoal(goal)
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle LEVEL_ID TOPIC_INDEX",
			Short: "Mark a topic understood, or not",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				levelID, err := parseID(args[0])
				if err != nil {
					return err
				}
				idx, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid topic index %q", args[1])
				}
				if _, err := c.requireUser(ctx); err != nil {
					return err
				}
				if err := c.app.Client.ToggleTopic(ctx, levelID, idx); err != nil {
					return err
				}
				c.printf("Toggled topic %d of level %d\n", idx, levelID)
				return nil
			},
		},
	)
	return cmd
}

func (c *cli) printGoal(g *model.Goal) {
	c.printf("%s %s\n", c.colors.paint(Cyan, fmt.Sprintf("#%d", g.ID)), g.Title)
	if g.Description != "" {
		c.printf("%s\n", c.colors.paint(Gray, g.Description))
	}
	for _, lvl := range g.Roadmap.Levels {
		c.printf("\nLevel %d (id %d): %s  [%s, %d XP]  %d/%d topics\n",
			lvl.Order, lvl.ID, lvl.Title, lvl.Status, lvl.XPReward, lvl.CompletedTopics(), len(lvl.Topics))
		for i, t := range lvl.Topics {
			mark := "[ ]"
			if t.Completed {
				mark = c.colors.paint(Green, "[x]")
			}
			c.printf("  %s %d. %s\n", mark, i, t.Name)
		}
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
