package cli

import (
	"time"

	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/token"
	"github.com/spf13/cobra"
)

func (c *cli) tokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Show whether a token is stored and when it expires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := c.app.Tokens.Get()
			if errors.Is(err, errors.ErrNoToken) {
				c.printf("No token stored\n")
				return nil
			}
			if err != nil {
				return err
			}
			if sub := token.Subject(tok.AccessToken); sub != "" {
				c.printf("Subject: %s\n", sub)
			}
			if tok.Expiry.IsZero() {
				c.printf("Expiry:  unknown\n")
				return nil
			}
			remaining := time.Until(tok.Expiry).Round(time.Second)
			if remaining <= 0 {
				c.printf("Expiry:  %s (%s, will refresh on next request)\n",
					tok.Expiry.Local().Format(time.DateTime), c.colors.paint(Yellow, "expired"))
				return nil
			}
			c.printf("Expiry:  %s (in %s)\n", tok.Expiry.Local().Format(time.DateTime), remaining)
			return nil
		},
	}
}
