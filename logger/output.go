package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Written files, errors with source locations, final status
//	1 (-v)      - + Per-module progress, watch events, translation summaries
//	2 (-vv)     - + Timing, resolved config, cache hits and misses
//	3 (-vvv)    - + SQL statements, symbol table decisions
//	4 (-vvvv)   - + Decoded AST documents, generated source

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults    OutputCategory = iota // Written .rs files and manifests
	OutputErrors                           // Errors with source locations
	OutputUserStatus                       // Final success/failure status

	// Level 1 (-v) - Informational
	OutputProgress      // Per-module progress (e.g., "translated 12/40 modules")
	OutputWatchEvents   // Files picked up by watch mode
	OutputOperationInfo // Per-module summaries (async, entry point, renames)

	// Level 2 (-vv) - Detailed
	OutputTiming // Per-module translation time
	OutputConfig // Config values loaded/applied
	OutputCache  // Cache hits, misses, and stores

	// Level 3 (-vvv) - Debug
	OutputSQLQueries // Individual SQL queries executed by the cache
	OutputSymbols    // Scope and symbol decisions during codegen

	// Level 4 (-vvvv) - Full dump
	OutputASTDump         // Decoded AST documents
	OutputGeneratedSource // Generated Rust echoed alongside the written file
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputUserStatus: VerbosityUser,

	OutputProgress:      VerbosityInfo,
	OutputWatchEvents:   VerbosityInfo,
	OutputOperationInfo: VerbosityInfo,

	OutputTiming: VerbosityDebug,
	OutputConfig: VerbosityDebug,
	OutputCache:  VerbosityDebug,

	OutputSQLQueries: VerbosityTrace,
	OutputSymbols:    VerbosityTrace,

	OutputASTDump:         VerbosityAll,
	OutputGeneratedSource: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

var categoryNames = map[OutputCategory]string{
	OutputResults:         "results",
	OutputErrors:          "errors",
	OutputUserStatus:      "status",
	OutputProgress:        "progress",
	OutputWatchEvents:     "watch",
	OutputOperationInfo:   "operation-info",
	OutputTiming:          "timing",
	OutputConfig:          "config",
	OutputCache:           "cache",
	OutputSQLQueries:      "sql",
	OutputSymbols:         "symbols",
	OutputASTDump:         "ast-dump",
	OutputGeneratedSource: "generated-source",
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// EnabledCategories returns all output categories enabled at the given
// verbosity, in declaration order.
func EnabledCategories(verbosity int) []OutputCategory {
	var enabled []OutputCategory
	for cat := OutputResults; cat <= OutputGeneratedSource; cat++ {
		if ShouldOutput(verbosity, cat) {
			enabled = append(enabled, cat)
		}
	}
	return enabled
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "results and errors only"
	case VerbosityInfo:
		return "results, errors, progress, and status"
	case VerbosityDebug:
		return "above + timing, config, cache details"
	case VerbosityTrace:
		return "above + SQL and symbol decisions"
	case VerbosityAll:
		return "full output including AST and generated source"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
