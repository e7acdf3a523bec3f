// Package commands provides CLI commands for planassist.
package commands

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/planassist/internal/api"
	"github.com/diogo/planassist/internal/config"
	"github.com/diogo/planassist/internal/logger"
	"github.com/diogo/planassist/internal/render"
	"github.com/diogo/planassist/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	apiURL  string
	logFile string
	verbose bool
}

// app carries state resolved once per invocation in PersistentPreRunE.
type app struct {
	deps  *Dependencies
	flags globalFlags

	cfg       config.Config
	cfgErr    error
	logCloser io.Closer
}

// NewRootCmd builds the command tree.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	a := &app{deps: deps.withDefaults()}
	ask := &askFlags{}

	rootCmd := &cobra.Command{
		Use:   "planassist [question]",
		Short: "Terminal chat client for the Insurance Plan Assistant",
		Long: `planassist talks to an Insurance Plan Assistant backend over HTTP.
It posts each question to {API_URL}/chat and shows the reply together with
the plan documents it cites.

The backend address comes from --api-url, the API_URL environment variable
(a .env file in the working directory is honored), or ~/.planassist/config.json.

Examples:
  planassist                            Start interactive chat
  planassist "What is the deductible?"  Ask a single question
  planassist -f question.txt            Read the question from a file
  cat question.txt | planassist         Read the question from stdin
  planassist config set api_url http://localhost:8000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(a.deps.Out, "planassist %s (built %s)\n", Version, BuildTime)
				return nil
			}

			question, ok, err := a.readQuestion(args, ask.file)
			if err != nil {
				return err
			}
			if ok {
				return a.runAsk(cmd.Context(), question, ask)
			}

			return a.runChat(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.flags.apiURL, "api-url", "", "Backend base URL (overrides API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.flags.logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVar(&a.flags.verbose, "verbose", false, "Enable debug logging")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")
	addAskFlags(rootCmd, ask)

	rootCmd.SetIn(a.deps.In)
	rootCmd.SetOut(a.deps.Out)
	rootCmd.SetErr(a.deps.Err)

	rootCmd.AddCommand(newChatCmd(a))
	rootCmd.AddCommand(newAskCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(deps.Err, tui.FormatError(err))
		os.Exit(1)
	}
}

// setup loads .env and the config file, then configures logging and theme.
// A broken config file is reported but does not stop the command.
func (a *app) setup() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	a.cfg, a.cfgErr = config.LoadConfig()
	if a.cfgErr != nil {
		fmt.Fprintf(a.deps.Err, "Warning: %v (using defaults)\n", a.cfgErr)
	}

	if a.flags.verbose {
		a.cfg.Verbose = true
	}
	if a.flags.logFile != "" {
		a.cfg.LogFile = a.flags.logFile
	}

	logger.Configure(a.cfg.Verbose)
	closer, err := logger.SetupFile(a.cfg.LogFile)
	if err != nil {
		fmt.Fprintf(a.deps.Err, "Warning: logging disabled: %v\n", err)
		logger.Discard()
	} else {
		a.logCloser = closer
	}

	if a.cfg.TUITheme != "" && !render.SetTUITheme(a.cfg.TUITheme) {
		fmt.Fprintf(a.deps.Err, "Warning: unknown theme %q, using %s\n", a.cfg.TUITheme, render.TokyoNightTheme.Name)
	}
	tui.UpdateTheme()

	logger.Named("cli").WithField("version", Version).Debug("planassist started")
	return nil
}

func (a *app) teardown() {
	if a.logCloser != nil {
		logger.Discard()
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

// apiURL resolves the backend base URL: flag, then API_URL, then config.
func (a *app) apiURL() (string, error) {
	return config.ResolveAPIURL(a.cfg, a.flags.apiURL)
}

// client returns the injected client or builds the HTTP one.
func (a *app) client() (api.ChatClientInterface, string, error) {
	baseURL, err := a.apiURL()
	if a.deps.Client != nil {
		return a.deps.Client, baseURL, nil
	}
	if err != nil {
		return nil, "", err
	}

	c, err := api.NewClient(baseURL,
		api.WithLogger(logger.Named("api")),
		api.WithUserAgent("planassist/"+Version),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create client: %w", err)
	}
	return c, c.BaseURL(), nil
}

// bubbleOptions maps the user config onto message rendering options.
func (a *app) bubbleOptions(width int) tui.BubbleOptions {
	opts := tui.DefaultBubbleOptions()
	if width > 0 {
		opts.Width = width
	}
	if a.cfg.SourcesForUser {
		opts.Sources = tui.SourcesAll
	}
	opts.Markdown = a.cfg.Markdown.Enabled
	opts.MarkdownOptions = render.OptionsFromConfig(a.cfg.Markdown)
	return opts
}

// readQuestion picks the question from -f, the positional argument or piped
// stdin, in that order. ok is false when none was given.
func (a *app) readQuestion(args []string, file string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}

	if a.deps.StdinPiped() {
		data, err := io.ReadAll(a.deps.In)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	return "", false, nil
}

// hostOf returns the host[:port] part of a base URL for display.
func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return strings.TrimSpace(baseURL)
	}
	return u.Host
}
