package main

import (
	"context"
	"fmt"
	"io"

	"github.com/arthur-debert/menuadmin/api"
	"github.com/arthur-debert/menuadmin/dashboard"
	"github.com/arthur-debert/menuadmin/formats"
	"github.com/arthur-debert/menuadmin/gate"
	"github.com/arthur-debert/menuadmin/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CLI is the menuadmin command tree and the services it drives
type CLI struct {
	rootCmd   *cobra.Command
	viperInst *viper.Viper
	configErr error

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// Set up in PersistentPreRunE
	cfg     Config
	logs    *loggers
	store   *session.Store
	client  *api.Client
	gate    *gate.Gate
	engine  *dashboard.Engine
	printer *formats.OutputFormat
}

// NewCLI builds the command tree. Data goes to out; notices, prompts and
// verbose logs go to errOut.
func NewCLI(in io.Reader, out, errOut io.Writer) *CLI {
	cli := &CLI{
		viperInst: viper.New(),
		in:        in,
		out:       out,
		errOut:    errOut,
	}

	cli.configErr = setupViper(cli.viperInst)
	cli.createRootCommand()
	cli.addCommands()

	return cli
}

// Execute runs the command line in args
func (cli *CLI) Execute(ctx context.Context, args []string) error {
	cli.rootCmd.SetArgs(args)
	defer cli.shutdown()
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) createRootCommand() {
	cli.rootCmd = &cobra.Command{
		Use:   "menuadmin",
		Short: "Manage the Hindustani Dhaba menu",
		Long: `menuadmin is the admin console for the restaurant menu. It signs in
against the REST backend, keeps the session on disk and lets you list,
search, add, edit and delete dishes.

Configuration Sources (in order of precedence):
1. Command line flags
2. Environment variables (MENUADMIN_*)
3. Configuration files (custom path or default locations)
4. Defaults

Configuration File Discovery:
  MENUADMIN_CONFIG=/path/to/config.yaml  # Custom config file path
  ./menuadmin.{yaml,json}                # Current directory
  ~/.menuadmin/menuadmin.{yaml,json}     # User directory
  /etc/menuadmin/menuadmin.{yaml,json}   # System directory

Examples:
  menuadmin login --email admin@hindustanidhaba.com
  menuadmin list --search paneer --category starter
  menuadmin add --name Samosa --description "Crisp pastry" --price 30 --category starter
  menuadmin delete 64f1c2 --yes`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = cli.viperInst.BindPFlags(cmd.Flags())
			return cli.setup()
		},
	}

	cli.rootCmd.SetIn(cli.in)
	cli.rootCmd.SetOut(cli.out)
	cli.rootCmd.SetErr(cli.errOut)

	flags := cli.rootCmd.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "Base URL of the menu REST API")
	flags.String("session-file", "", "Session file path (default $XDG_CONFIG_HOME/menuadmin/session.json)")
	flags.StringP("format", "f", "table", "Output format (table|json|yaml|markdown)")
	flags.String("log-level", "warn", "Log level for the log file (debug|info|warn|error)")
	flags.BoolP("verbose", "v", false, "Mirror logs and request traces to stderr")
}

func (cli *CLI) addCommands() {
	cli.rootCmd.AddCommand(
		cli.newLoginCmd(),
		cli.newLogoutCmd(),
		cli.newWhoamiCmd(),
		cli.newListCmd(),
		cli.newAddCmd(),
		cli.newEditCmd(),
		cli.newDeleteCmd(),
		cli.newCategoriesCmd(),
		cli.newRouteCmd(),
	)
}

// setup resolves configuration and wires the session, client, gate and
// engine
func (cli *CLI) setup() error {
	if cli.configErr != nil {
		return NewConfigError("config file is unreadable", cli.configErr)
	}

	cfg, err := loadConfig(cli.viperInst)
	if err != nil {
		return err
	}
	cli.cfg = cfg

	logs, err := initLogging(cfg.LogLevel, cfg.Verbose, cli.errOut)
	if err != nil {
		return NewConfigError("logging could not be initialized", err)
	}
	cli.logs = logs

	cli.printer, _ = formats.Get(cfg.Format)

	backend := session.NewFileBackend(cfg.SessionFile, session.WithBackendLogger(logs.main))
	cli.store = session.NewStore(backend, session.WithLogger(logs.main))

	cli.client = api.New(cfg.APIURL,
		api.WithTokenSource(cli.store),
		api.WithLogger(logs.requests),
		api.WithUnauthorizedHandler(func() { cli.gate.HandleUnauthorized() }),
	)
	cli.gate = gate.New(cli.store, cli.client, gate.WithLogger(logs.main))
	cli.engine = dashboard.NewEngine(cli.client, dashboard.WithLogger(logs.main))

	logs.main.Debug("configuration resolved",
		"api_url", cfg.APIURL,
		"session_file", cfg.SessionFile,
		"format", cfg.Format,
		"config_file", cli.viperInst.ConfigFileUsed())
	return nil
}

func (cli *CLI) shutdown() {
	if cli.logs != nil {
		_ = cli.logs.Close()
		cli.logs = nil
	}
}

// requireDashboard starts the gate and fails unless /dashboard renders
func (cli *CLI) requireDashboard(operation string) error {
	cli.gate.Start()
	route := cli.gate.Resolve(gate.PathDashboard)
	if route.Target != gate.PathDashboard {
		cli.logs.main.Info("dashboard route redirected", "target", route.Target)
		return NewAuthRequiredError(operation)
	}
	return nil
}

// notify writes a notice for the administrator to errOut
func (cli *CLI) notify(n dashboard.Notice) {
	prefix := ""
	switch n.Kind {
	case dashboard.KindSuccess:
		prefix = "✓ "
	case dashboard.KindWarning:
		prefix = "! "
	case dashboard.KindError:
		prefix = "✗ "
	}
	fmt.Fprintln(cli.errOut, prefix+n.Message)
}
