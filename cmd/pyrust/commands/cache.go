package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/pyrust/cache"
	"github.com/teranos/pyrust/display"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/logger"
)

// CacheCmd inspects and prunes the translation cache
var CacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and prune the translation cache",
	Long: `Inspect and prune the SQLite cache translate --cache reads and fills.

The cache lives at cache.path (default .pyrust/cache.db). Entries are keyed
by module path, AST document and translation settings, so a stale entry is
never served; pruning only reclaims space.

Examples:
  pyrust cache stats
  pyrust cache prune --older-than 168h
  pyrust cache prune --older-than 0   # drop everything`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache size",
	RunE:  runCacheStats,
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old cache entries",
	RunE:  runCachePrune,
}

// DefaultPruneAge is how old an entry must be before prune removes it.
const DefaultPruneAge = 30 * 24 * time.Hour

func init() {
	cachePruneCmd.Flags().Duration("older-than", DefaultPruneAge, "Delete entries created longer ago than this")

	CacheCmd.AddCommand(cacheStatsCmd)
	CacheCmd.AddCommand(cachePruneCmd)
}

// openCache opens the configured cache, refusing to create one that does
// not exist yet.
func openCache() (*cache.Store, string, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to load config")
	}
	path := cfg.GetCachePath()
	if _, err := os.Stat(path); err != nil {
		return nil, path, errors.WithHint(
			errors.NewNotFoundError("no cache at %s", path),
			"run 'pyrust translate --cache ...' to create it")
	}
	store, err := cache.OpenStore(path)
	if err != nil {
		return nil, path, err
	}
	return store, path, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	store, path, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	st, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), struct {
			Path string `json:"path"`
			cache.Stats
		}{path, st})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries for %d modules\n", path, st.Entries, st.Modules)
	return nil
}

func runCachePrune(cmd *cobra.Command, args []string) error {
	age, _ := cmd.Flags().GetDuration("older-than")
	if age < 0 {
		return errors.NewInvalidInputError("--older-than must not be negative")
	}
	store, path, err := openCache()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Prune(cmd.Context(), time.Now().Add(-age))
	if err != nil {
		return err
	}
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), map[string]int64{"pruned": n})
	}
	if logger.ShouldOutput(Verbosity, logger.OutputUserStatus) {
		pterm.Success.Printfln("Pruned %d entries from %s", n, path)
	}
	return nil
}
