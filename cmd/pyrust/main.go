package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/pyrust/am"
	"github.com/teranos/pyrust/cmd/pyrust/commands"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/logger"
)

var rootCmd = &cobra.Command{
	Use:   "pyrust",
	Short: "pyrust - Python to Rust source translator",
	Long: `pyrust - Translate Python modules into Rust source files.

pyrust reads a module's AST (as dumped by tools/pyast_dump.py, in JSON or
YAML) and writes an equivalent .rs file. Python builtins come from a runtime
shim crate; async modules get an entry point for the configured runtime.

Available commands:
  translate - Translate AST documents into Rust
  watch     - Re-translate whenever an AST document changes
  am        - Manage pyrust configuration ("I am")
  cache     - Inspect and prune the translation cache
  version   - Show version information

Examples:
  pyrust translate calc.ast.json              # Print Rust to stdout
  pyrust translate -o out --cargo *.ast.json  # Write a Cargo crate
  pyrust watch app.ast.json -o out            # Re-translate on change
  pyrust am show                              # Show current configuration`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json")
		commands.Verbosity = verbosity

		if path, _ := cmd.Flags().GetString("config"); path != "" {
			commands.ConfigFile = path
		}
		if cfg, err := commands.LoadConfig(); err == nil {
			logger.SetTheme(cfg.GetLogTheme())
		}
		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results and logs as JSON")
	rootCmd.PersistentFlags().String("config", "", "Read configuration from this file only (default: "+am.ProjectConfigName+" cascade)")

	rootCmd.AddCommand(commands.TranslateCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.CacheCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		pterm.Error.WithWriter(os.Stderr).Println(err.Error())
		for _, hint := range errors.GetAllHints(err) {
			fmt.Fprintf(os.Stderr, "  hint: %s\n", hint)
		}
		os.Exit(1)
	}
}
