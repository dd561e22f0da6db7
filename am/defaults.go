package am

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/teranos/pyrust/codegen"
)

// Default values not owned by codegen
const (
	DefaultCachePath = ".pyrust/cache.db"
	DefaultLogTheme  = "everforest"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("translate.namespace_prefix", "")
	v.SetDefault("translate.module_search_path", []string{})
	v.SetDefault("translate.runtime_shim", codegen.DefaultRuntimeShim)
	v.SetDefault("translate.emit_runtime_shim_import", true)
	v.SetDefault("translate.async_runtime", "tokio")
	v.SetDefault("translate.custom_runtime_attribute", "")
	v.SetDefault("translate.custom_runtime_import", "")
	v.SetDefault("translate.allow_unsafe", false)
	v.SetDefault("translate.elide_modules", []string{})

	v.SetDefault("output.dir", "")
	v.SetDefault("output.cargo", false)
	v.SetDefault("output.crate_name", "")
	v.SetDefault("output.jobs", 0)
	v.SetDefault("output.log_theme", DefaultLogTheme)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", DefaultCachePath)
}

// envAliases are short environment variable names for the settings most
// often overridden in CI. The PYRUST_SECTION_KEY form always works too.
var envAliases = map[string]string{
	"translate.async_runtime": "PYRUST_RUNTIME",
	"cache.path":              "PYRUST_CACHE_PATH",
	"output.dir":              "PYRUST_OUT",
}

// BindEnvVars binds every alias in envAliases alongside the key's full name.
func BindEnvVars(v *viper.Viper) {
	for key, alias := range envAliases {
		_ = v.BindEnv(key, EnvKey(key), alias)
	}
}

// GetCachePath returns the configured cache database path
func (c *Config) GetCachePath() string {
	if c.Cache.Path == "" {
		return DefaultCachePath
	}
	return c.Cache.Path
}

// GetLogTheme returns the log theme (default: everforest)
func (c *Config) GetLogTheme() string {
	if c.Output.LogTheme == "" {
		return DefaultLogTheme
	}
	return c.Output.LogTheme
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Translate: {Runtime: %s, Shim: %s}, Output: {Dir: %s, Cargo: %t}, Cache: {Enabled: %t}}",
		c.Translate.AsyncRuntime, c.Translate.RuntimeShim, c.Output.Dir, c.Output.Cargo, c.Cache.Enabled)
}
