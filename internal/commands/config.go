package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/diogo/planassist/internal/config"
	"github.com/diogo/planassist/internal/render"
)

var (
	configKeyStyle     = lipgloss.NewStyle().Bold(true)
	configDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89"))
	configSectionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true)
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration planassist will use, including the backend
URL after applying --api-url, API_URL and the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showConfig()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a setting in the config file",
		Long:  "Change a setting in ~/.planassist/config.json.\n\nKeys: " + strings.Join(config.Keys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.setConfig(args[0], args[1])
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.deps.Out, path)
			return nil
		},
	})

	return cmd
}

func (a *app) showConfig() error {
	out := a.deps.Out

	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, configSectionStyle.Render("Files"))
	fmt.Fprintf(out, "  %-20s %s\n", configKeyStyle.Render("config"), path)
	fmt.Fprintf(out, "  %-20s %s\n", configKeyStyle.Render("log"), a.cfg.LogFile)

	fmt.Fprintln(out)
	fmt.Fprintln(out, configSectionStyle.Render("Backend"))
	if resolved, err := a.apiURL(); err != nil {
		fmt.Fprintf(out, "  %-20s %s\n", configKeyStyle.Render("api_url"), configDimStyle.Render("invalid: "+err.Error()))
	} else {
		fmt.Fprintf(out, "  %-20s %s\n", configKeyStyle.Render("api_url"), resolved)
		fmt.Fprintf(out, "  %-20s %s\n", configKeyStyle.Render("endpoint"), resolved+"/chat")
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, configSectionStyle.Render("Settings"))
	for _, key := range config.Keys() {
		value, err := config.Get(a.cfg, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-20s %s\n", configKeyStyle.Render(key), value)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s %s\n", configDimStyle.Render("Themes:"), strings.Join(render.TUIThemeNames(), ", "))
	return nil
}

func (a *app) setConfig(key, value string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("refusing to overwrite unreadable config: %w", err)
	}

	if key == "tui_theme" {
		if _, ok := render.GetTUIThemeByName(value); !ok {
			return fmt.Errorf("unknown theme %q (available: %s)", value, strings.Join(render.TUIThemeNames(), ", "))
		}
	}

	if err := config.Set(&cfg, key, value); err != nil {
		return err
	}
	if err := config.SaveConfig(cfg); err != nil {
		return err
	}

	saved, _ := config.Get(cfg, key)
	fmt.Fprintf(a.deps.Out, "%s = %s\n", key, saved)
	return nil
}
