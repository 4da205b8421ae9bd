// Package cli implements the questpath command-line tool.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-questpath-client/apierror"
	"github.com/jrsteele09/go-questpath-client/app"
	"github.com/jrsteele09/go-questpath-client/internal/config"
	"github.com/jrsteele09/go-questpath-client/internal/errors"
	"github.com/jrsteele09/go-questpath-client/model"
	"github.com/spf13/cobra"
)

const configPathVar = "QUESTPATH_CONFIG"

type flags struct {
	configPath string
	baseURL    string
	storePath  string
	ephemeral  bool
	verbose    bool
}

// cli is the state shared by every command of one invocation.
type cli struct {
	out     io.Writer
	errOut  io.Writer
	colors  palette
	toast   *toast
	flags   flags
	appOpts []app.Option

	app *app.App
}

// Run executes the command line args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, appOpts ...app.Option) int {
	c := &cli{
		out:     stdout,
		errOut:  stderr,
		colors:  paletteFor(stdout),
		toast:   newToast(stderr),
		appOpts: appOpts,
	}
	if args == nil {
		args = []string{}
	}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	c.close()
	if err == nil {
		return 0
	}
	c.report(err)
	return 1
}

// report prints err unless the notifier has already shown it.
func (c *cli) report(err error) {
	var apiErr *apierror.Error
	switch {
	case errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized:
		c.toast.Notify("Session expired. Please log in again.")
	case errors.As(err, &apiErr):
		if c.toast.count() == 0 {
			c.toast.Notify(apierror.Classify(err))
		}
	case errors.Is(err, errors.ErrNotLoggedIn):
		c.toast.Notify("Not logged in. Run `questpath login` first.")
	default:
		c.toast.Notify(err.Error())
	}
}

func (c *cli) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "questpath",
		Short:         "QuestPath turns learning goals into levelled roadmaps",
		Long:          "Command-line client for QuestPath: track learning goals, take level quizzes and earn XP.",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c.banner()
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "questpath" || cmd.Name() == "help" {
				return nil
			}
			return c.open()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default $QUESTPATH_CONFIG or <user config dir>/questpath/config.yaml)")
	pf.StringVar(&c.flags.baseURL, "base-url", "", "API base URL, e.g. https://questpath.app/api")
	pf.StringVar(&c.flags.storePath, "token-store", "", "path of the session database")
	pf.BoolVar(&c.flags.ephemeral, "ephemeral", false, "keep the session in memory only")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.loginCommand(),
		c.registerCommand(),
		c.loginGoogleCommand(),
		c.logoutCommand(),
		c.whoamiCommand(),
		c.renameCommand(),
		c.goalsCommand(),
		c.quizCommand(),
		c.leaderboardCommand(),
		c.statsCommand(),
		c.premiumCommand(),
		c.adminCommand(),
		c.tokenCommand(),
	)
	return root
}

func (c *cli) configPath() string {
	if c.flags.configPath != "" {
		return c.flags.configPath
	}
	if p := config.GetEnv(configPathVar, ""); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "questpath", "config.yaml")
}

func (c *cli) open() error {
	cfg, err := config.Load(c.configPath())
	if err != nil {
		return err
	}
	cfg = config.WithOverrides(cfg, func(v *config.FileValues) {
		v.BaseURL = c.flags.baseURL
		v.TokenStorePath = c.flags.storePath
	})

	opts := []app.Option{
		app.WithLogOutput(c.errOut),
		app.WithNotifier(c.toast),
		app.Ephemeral(c.flags.ephemeral),
		app.Verbose(c.flags.verbose),
	}
	a, err := app.New(cfg, append(opts, c.appOpts...)...)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}

func (c *cli) close() {
	if c.app == nil {
		return
	}
	if err := c.app.Close(); err != nil {
		fmt.Fprintln(c.errOut, err)
	}
	c.app = nil
}

// requireUser resolves the stored session, like a protected page would.
func (c *cli) requireUser(ctx context.Context) (*model.User, error) {
	if err := c.app.Session.Init(ctx); err != nil {
		return nil, err
	}
	return c.app.Session.RequireUser(ctx)
}

func (c *cli) banner() {
	name := "QuestPath"
	if c.app != nil {
		name = c.app.Config.GetAppName()
	}
	fig := figure.NewFigure(name, "cybermedium", true)
	fmt.Fprint(c.out, c.colors.paint(Cyan, fig.String()))
	fmt.Fprintln(c.out)
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
