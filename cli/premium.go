package cli

import (
	"github.com/jrsteele09/go-questpath-client/apiclient"
	"github.com/spf13/cobra"
)

func (c *cli) premiumCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "premium",
		Short: "Manage the premium subscription",
	}

	var plan string
	checkout := &cobra.Command{
		Use:   "checkout",
		Short: "Start a premium checkout and print the payment page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := c.requireUser(ctx); err != nil {
				return err
			}
			session, err := c.app.Client.Checkout(ctx, plan)
			if err != nil {
				return err
			}
			c.printf("Complete your purchase at:\n\n  %s\n", session.URL)
			return nil
		},
	}
	checkout.Flags().StringVar(&plan, "plan", apiclient.PlanPremium, "plan to buy")

	cancel := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel the subscription at the end of the paid period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := c.requireUser(ctx); err != nil {
				return err
			}
			res, err := c.app.Client.CancelSubscription(ctx)
			if err != nil {
				return err
			}
			c.printf("%s\nPremium access continues until %s\n", res.Message, res.AccessUntil.Format("2006-01-02"))
			return nil
		},
	}

	cmd.AddCommand(checkout, cancel)
	return cmd
}
