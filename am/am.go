// Package am holds pyrust's configuration: what a translation run emits, where
// output goes, and the translation cache.
//
// Settings are layered, lowest precedence first: built-in defaults,
// /etc/pyrust/config.toml, ~/.pyrust/config.toml, the nearest pyrust.toml
// found walking up from the working directory, then PYRUST_* environment
// variables. Command-line flags are applied on top by the CLI.
package am

// Config represents the pyrust configuration
type Config struct {
	Translate TranslateConfig `mapstructure:"translate"`
	Output    OutputConfig    `mapstructure:"output"`
	Cache     CacheConfig     `mapstructure:"cache"`
	// Runtimes overrides Cargo version requirements per crate
	// (e.g. tokio = ">=1.30, <2").
	Runtimes map[string]string `mapstructure:"runtimes"`
}

// TranslateConfig mirrors codegen.Options in file form
type TranslateConfig struct {
	NamespacePrefix        string   `mapstructure:"namespace_prefix"`
	ModuleSearchPath       []string `mapstructure:"module_search_path"`
	RuntimeShim            string   `mapstructure:"runtime_shim"`             // crate providing Python builtins (default: stdpython)
	EmitRuntimeShimImport  bool     `mapstructure:"emit_runtime_shim_import"` // emit `use <shim>::*;` (default: true)
	AsyncRuntime           string   `mapstructure:"async_runtime"`            // tokio, async-std, smol, custom
	CustomRuntimeAttribute string   `mapstructure:"custom_runtime_attribute"` // e.g. "my_rt::main", custom only
	CustomRuntimeImport    string   `mapstructure:"custom_runtime_import"`    // e.g. "my_rt", custom only
	AllowUnsafe            bool     `mapstructure:"allow_unsafe"`
	ElideModules           []string `mapstructure:"elide_modules"` // extra Python modules whose imports are dropped
}

// OutputConfig configures where generated files go
type OutputConfig struct {
	Dir       string `mapstructure:"dir"`        // empty = print to stdout
	Cargo     bool   `mapstructure:"cargo"`      // also write Cargo.toml into Dir
	CrateName string `mapstructure:"crate_name"` // Cargo package name (default: directory name of Dir)
	Jobs      int    `mapstructure:"jobs"`       // concurrent translations (0 = GOMAXPROCS)
	LogTheme  string `mapstructure:"log_theme"`  // Color theme: gruvbox, everforest
}

// CacheConfig configures the translation cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // SQLite database file
}

// File names
const (
	ProjectConfigName = "pyrust.toml"
	UserConfigName    = "config.toml"
	SystemConfigPath  = "/etc/pyrust/config.toml"
	UserConfigDir     = ".pyrust"
	EnvPrefix         = "PYRUST"
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)
