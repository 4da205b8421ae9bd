package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-questpath-client/apierror"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/jrsteele09/go-questpath-client/oauthsync"
	"github.com/jrsteele09/go-questpath-client/session"
	"github.com/spf13/cobra"
)

type credentials struct {
	email    string
	password string
}

func (cr *credentials) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&cr.email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&cr.password, "password", "p", "", "account password (read from stdin when omitted)")
	_ = cmd.MarkFlagRequired("email")
}

// resolve reads the password from stdin when it was not given as a flag.
func (cr *credentials) resolve(cmd *cobra.Command) error {
	if cr.password != "" {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("reading password: %w", err)
	}
	cr.password = strings.TrimRight(line, "\r\n")
	return nil
}

func (c *cli) loginCommand() *cobra.Command {
	var cr credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cr.resolve(cmd); err != nil {
				return err
			}
			if _, err := c.app.Client.Login(cmd.Context(), cr.email, cr.password); err != nil {
				return credentialError(err)
			}
			return c.welcome(cmd.Context())
		},
	}
	cr.bind(cmd)
	return cmd
}

func (c *cli) registerCommand() *cobra.Command {
	var cr credentials
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cr.resolve(cmd); err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.app.Client.Register(ctx, cr.email, cr.password); err != nil {
				return err
			}
			if _, err := c.app.Client.Login(ctx, cr.email, cr.password); err != nil {
				return credentialError(err)
			}
			return c.welcome(ctx)
		},
	}
	cr.bind(cmd)
	return cmd
}

func (c *cli) loginGoogleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login-google",
		Short: "Sign in with a Google account in the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.app.Config
			google, err := oauthsync.NewGoogle(ctx, cfg.GetGoogleClientID(), cfg.GetGoogleClientSecret())
			if err != nil {
				return err
			}
			cb, err := google.Listen(cfg.GetGoogleCallbackAddr())
			if err != nil {
				return err
			}
			c.printf("Open this page to sign in:\n\n  %s\n\n", cb.URL())
			identity, err := cb.Wait(ctx)
			if err != nil {
				return err
			}
			if _, err := c.app.Client.OAuthLogin(ctx, identity); err != nil {
				return err
			}
			return c.welcome(ctx)
		},
	}
}

// credentialError turns a 401 from a credential exchange into its message;
// there it means bad credentials, not an expired session.
func credentialError(err error) error {
	if apierror.IsStatus(err, http.StatusUnauthorized) {
		return fmt.Errorf("%s", apierror.Classify(err))
	}
	return err
}

// welcome loads the fresh session and greets the user.
func (c *cli) welcome(ctx context.Context) error {
	if err := c.app.Session.RefreshUser(ctx); err != nil {
		return err
	}
	u, err := c.app.Session.RequireUser(ctx)
	if err != nil {
		return err
	}
	c.printf("%s Logged in as %s (level %d)\n", c.colors.paint(Green, "✓"), u.Name(), c.app.Session.Level())
	return nil
}

func (c *cli) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.app.Logout()
			c.printf("Logged out\n")
			return nil
		},
	}
}

func (c *cli) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user, level and XP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := c.requireUser(cmd.Context())
			if err != nil {
				return err
			}
			c.printUser(u)
			return nil
		},
	}
}

func (c *cli) printUser(u *model.User) {
	s := c.app.Session
	p := s.XPProgress()
	c.printf("%s <%s>\n", c.colors.paint(Cyan, u.Name()), u.Email)
	c.printf("Level %d  %s %d/%d XP\n", s.Level(), progressBar(p, 20), p.Current, p.Needed)
	c.printf("Total XP: %d\n", u.TotalExp)
	switch {
	case s.Premium() && u.PremiumExpiry != nil && !u.PremiumExpiry.IsZero():
		c.printf("Plan: %s until %s\n", c.colors.paint(Yellow, "premium"), u.PremiumExpiry.Format("2006-01-02"))
	case s.Premium():
		c.printf("Plan: %s\n", c.colors.paint(Yellow, "premium"))
	default:
		c.printf("Plan: free\n")
	}
	if u.IsAdmin {
		c.printf("Role: admin\n")
	}
}

func progressBar(p session.Progress, width int) string {
	filled := int(p.Percentage / 100 * float64(width))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func (c *cli) renameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME",
		Short: "Change your display name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := c.requireUser(ctx); err != nil {
				return err
			}
			name := strings.Join(args, " ")
			u, err := c.app.Client.UpdateMe(ctx, model.ProfileUpdate{DisplayName: name})
			if err != nil {
				return err
			}
			c.app.Session.UpdateUser(model.UserPatch{DisplayName: u.DisplayName})
			c.printf("Display name set to %s\n", c.app.Session.User().Name())
			return nil
		},
	}
}
