package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/pyrust/am"
	"github.com/teranos/pyrust/display"
	"github.com/teranos/pyrust/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage pyrust configuration",
	Long: `am - Manage pyrust configuration ("I am")

Display and manage the settings translation runs use.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (PYRUST_* prefix)
3. Project config (nearest ./pyrust.toml, searching up directories)
4. User config (~/.pyrust/config.toml)
5. System config (/etc/pyrust/config.toml)
6. Default values

Examples:
  pyrust am show                             # Show current configuration
  pyrust am show --format json               # Show configuration in JSON format
  pyrust am get translate.async_runtime      # Get specific config value
  pyrust am set translate.async_runtime smol # Write to the project config
  pyrust am validate                         # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective pyrust configuration merged from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., translate.async_runtime, cache.path)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in the project config",
	Long: `Write one setting to the project pyrust.toml, creating it in the current
directory when no project config exists. The previous file is kept as
pyrust.toml.back1 (up to three generations).

List settings take comma-separated values:
  pyrust am set translate.elide_modules typing_extensions,dataclasses`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current pyrust configuration is valid",
	RunE:  runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and the source of every setting.

Each setting is listed under the file or environment variable it came
from; settings nobody overrode are listed as defaults.`,
	RunE: runAmWhere,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	v, err := configViper()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	settings := v.AllSettings()
	out := cmd.OutOrStdout()

	format := configFormat
	if display.ShouldOutputJSON(cmd) {
		format = "json"
	}
	switch format {
	case "json":
		return display.WriteJSON(out, settings)

	case "yaml":
		data, err := yaml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# pyrust configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(settings)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(out, "# pyrust configuration\n%s", data)

	default:
		return errors.NewInvalidInputError("unsupported format: %s (supported: toml, json, yaml)", format)
	}
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v, err := configViper()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if !v.IsSet(key) {
		return errors.WithHint(
			errors.NewNotFoundError("configuration key %q not found", key),
			"run 'pyrust am show' to list settings")
	}

	value := v.Get(key)
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), map[string]interface{}{key: value})
	}
	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path := ConfigFile
	if path == "" {
		path = am.ProjectConfigPath()
	}
	if err := am.Set(path, args[0], args[1]); err != nil {
		return err
	}
	am.Reset()

	cfg, err := LoadConfig()
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		pterm.Warning.Printfln("%s was written but is not valid: %v", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s = %s (%s)\n", args[0], args[1], path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro, err := am.GetConfigIntrospection()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), intro)
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [SYSTEM]   "+am.SystemConfigPath)
	fmt.Fprintln(out, "  3. [USER]     ~/"+am.UserConfigDir+"/"+am.UserConfigName)
	fmt.Fprintln(out, "  4. [PROJECT]  ./"+am.ProjectConfigName+" (searches up directories)")
	fmt.Fprintln(out, "  5. [ENV]      "+am.EnvPrefix+"_* environment variables")
	fmt.Fprintln(out)

	// Settings arrive sorted by key; group them by where they came from,
	// keeping the order sources first appear in within each level.
	type group struct {
		path     string
		settings []am.SettingInfo
	}
	bySource := map[am.ConfigSource][]*group{}
	for _, setting := range intro.Settings {
		groups := bySource[setting.Source]
		var g *group
		for _, candidate := range groups {
			if candidate.path == setting.SourcePath {
				g = candidate
				break
			}
		}
		if g == nil {
			g = &group{path: setting.SourcePath}
			bySource[setting.Source] = append(groups, g)
		}
		g.settings = append(g.settings, setting)
	}

	fmt.Fprintln(out, "Active configuration:")
	for _, source := range []am.ConfigSource{
		am.SourceDefault,
		am.SourceSystem,
		am.SourceUser,
		am.SourceProject,
		am.SourceEnvironment,
	} {
		for _, g := range bySource[source] {
			if source == am.SourceDefault {
				fmt.Fprintf(out, "\n%s: %d settings\n", source, len(g.settings))
			} else {
				fmt.Fprintf(out, "\n%s: %d settings from %s\n", source, len(g.settings), g.path)
			}
			for _, setting := range g.settings {
				value := fmt.Sprintf("%v", setting.Value)
				if len(value) > 50 {
					value = value[:47] + "..."
				}
				fmt.Fprintf(out, "  %s = %s\n", setting.Key, value)
			}
		}
	}
	return nil
}
