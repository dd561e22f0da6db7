package am

import (
	"strings"

	"github.com/teranos/pyrust/assembler"
	"github.com/teranos/pyrust/codegen"
	"github.com/teranos/pyrust/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if _, err := c.asyncRuntime(); err != nil {
		return err
	}
	if c.Translate.EmitRuntimeShimImport && strings.TrimSpace(c.Translate.RuntimeShim) == "" {
		return errors.New("translate.runtime_shim cannot be empty when translate.emit_runtime_shim_import is set")
	}

	// Jobs: 0 = one per CPU, negative = invalid
	if c.Output.Jobs < 0 {
		return errors.Newf("output.jobs must be >= 0, got %d", c.Output.Jobs)
	}
	switch c.Output.LogTheme {
	case "", "everforest", "gruvbox":
	default:
		return errors.Newf("output.log_theme must be everforest or gruvbox, got %q", c.Output.LogTheme)
	}

	if c.Cache.Enabled && strings.TrimSpace(c.Cache.Path) == "" {
		return errors.New("cache.path cannot be empty when cache.enabled is set")
	}

	for crate, req := range c.Runtimes {
		if err := assembler.ValidateVersion(req); err != nil {
			return errors.Wrapf(err, "runtimes.%s", crate)
		}
	}
	return nil
}

func (c *Config) asyncRuntime() (codegen.AsyncRuntime, error) {
	r, err := codegen.ParseAsyncRuntime(c.Translate.AsyncRuntime, c.Translate.CustomRuntimeAttribute, c.Translate.CustomRuntimeImport)
	if err != nil {
		return r, errors.Wrap(err, "translate.async_runtime")
	}
	return r, nil
}

// Options converts the translate section into codegen options reporting
// diagnostics against file.
func (c *Config) Options(file string) (codegen.Options, error) {
	runtime, err := c.asyncRuntime()
	if err != nil {
		return codegen.Options{}, err
	}
	opts := codegen.Options{
		NamespacePrefix:       c.Translate.NamespacePrefix,
		ModuleSearchPath:      append([]string(nil), c.Translate.ModuleSearchPath...),
		RuntimeShim:           c.Translate.RuntimeShim,
		EmitRuntimeShimImport: c.Translate.EmitRuntimeShimImport,
		AsyncRuntime:          runtime,
		AllowUnsafe:           c.Translate.AllowUnsafe,
		ElideModules:          append([]string(nil), c.Translate.ElideModules...),
		File:                  file,
	}
	if err := opts.Validate(); err != nil {
		return codegen.Options{}, err
	}
	return opts, nil
}
