package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/teranos/pyrust/errors"
)

// RuntimeKind selects one of the async runtime adapters.
type RuntimeKind int

const (
	// Tokio is the primary general-purpose runtime.
	Tokio RuntimeKind = iota
	// AsyncStd is the lightweight alternative.
	AsyncStd
	// Smol is the minimal-footprint runtime.
	Smol
	// CustomRuntime uses a caller-supplied attribute and import path.
	CustomRuntime
)

// AsyncRuntime describes how an async entry point is annotated and which
// crate is imported for it.
type AsyncRuntime struct {
	Kind RuntimeKind
	// CustomAttribute and CustomImport are used only when Kind is
	// CustomRuntime, e.g. "my_runtime::main" and "my_runtime".
	CustomAttribute string
	CustomImport    string
}

// Custom returns a runtime adapter with caller-supplied strings.
func Custom(attribute, importPath string) AsyncRuntime {
	return AsyncRuntime{Kind: CustomRuntime, CustomAttribute: attribute, CustomImport: importPath}
}

// Attribute is the path placed inside #[...] on the entry point.
func (r AsyncRuntime) Attribute() string {
	switch r.Kind {
	case AsyncStd:
		return "async_std::main"
	case Smol:
		return "smol_potat::main"
	case CustomRuntime:
		return r.CustomAttribute
	default:
		return "tokio::main"
	}
}

// Import is the crate path brought in with `use`.
func (r AsyncRuntime) Import() string {
	switch r.Kind {
	case AsyncStd:
		return "async_std"
	case Smol:
		return "smol_potat"
	case CustomRuntime:
		return r.CustomImport
	default:
		return "tokio"
	}
}

// Name is the configuration name of the runtime.
func (r AsyncRuntime) Name() string {
	switch r.Kind {
	case AsyncStd:
		return "async-std"
	case Smol:
		return "smol"
	case CustomRuntime:
		return "custom"
	default:
		return "tokio"
	}
}

func (r AsyncRuntime) String() string {
	if r.Kind == CustomRuntime {
		return fmt.Sprintf("custom(%s, %s)", r.CustomAttribute, r.CustomImport)
	}
	return r.Name()
}

// Validate checks that a custom runtime carries both strings.
func (r AsyncRuntime) Validate() error {
	if r.Kind != CustomRuntime {
		return nil
	}
	if strings.TrimSpace(r.CustomAttribute) == "" {
		return errors.New("custom async runtime requires an attribute")
	}
	if strings.TrimSpace(r.CustomImport) == "" {
		return errors.New("custom async runtime requires an import path")
	}
	return nil
}

// ParseAsyncRuntime maps a configuration name to a runtime. attribute and
// importPath are only consulted for "custom".
func ParseAsyncRuntime(name, attribute, importPath string) (AsyncRuntime, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tokio":
		return AsyncRuntime{Kind: Tokio}, nil
	case "async-std", "async_std", "asyncstd":
		return AsyncRuntime{Kind: AsyncStd}, nil
	case "smol":
		return AsyncRuntime{Kind: Smol}, nil
	case "custom":
		r := Custom(attribute, importPath)
		return r, r.Validate()
	default:
		return AsyncRuntime{}, errors.Newf("unknown async runtime %q (supported: tokio, async-std, smol, custom)", name)
	}
}

// Options is the translation configuration. It is a value object passed by
// copy into every recursive translation call.
type Options struct {
	// NamespacePrefix is a Rust path, such as "crate::py", that absolute
	// imports are rooted at. Empty leaves them as written.
	NamespacePrefix string
	// ModuleSearchPath lists directories absolute imports must resolve
	// against. Empty disables the check.
	ModuleSearchPath []string
	// RuntimeShim is the crate providing Python builtins to generated code.
	RuntimeShim string
	// EmitRuntimeShimImport controls the `use <shim>::*;` line.
	EmitRuntimeShimImport bool
	AsyncRuntime          AsyncRuntime
	// AllowUnsafe permits writes to module globals, which become
	// `static mut` items assigned inside `unsafe` blocks.
	AllowUnsafe bool
	// ElideModules adds host-language modules whose imports are dropped.
	ElideModules []string
	// File is the source path used in diagnostics.
	File string
}

// DefaultRuntimeShim is the shim crate generated code imports by default.
const DefaultRuntimeShim = "stdpython"

var rustPathPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$`)

// DefaultOptions returns the default configuration: shim import on, Tokio.
func DefaultOptions() Options {
	return Options{
		RuntimeShim:           DefaultRuntimeShim,
		EmitRuntimeShimImport: true,
		AsyncRuntime:          AsyncRuntime{Kind: Tokio},
	}
}

// WithTokio returns default options using the Tokio runtime.
func WithTokio() Options {
	return DefaultOptions()
}

// WithAsyncStd returns default options using async-std.
func WithAsyncStd() Options {
	o := DefaultOptions()
	o.AsyncRuntime = AsyncRuntime{Kind: AsyncStd}
	return o
}

// WithSmol returns default options using smol.
func WithSmol() Options {
	o := DefaultOptions()
	o.AsyncRuntime = AsyncRuntime{Kind: Smol}
	return o
}

// WithCustomRuntime returns default options using a custom runtime adapter.
func WithCustomRuntime(attribute, importPath string) Options {
	o := DefaultOptions()
	o.AsyncRuntime = Custom(attribute, importPath)
	return o
}

// ForFile returns a copy of o reporting diagnostics against path.
func (o Options) ForFile(path string) Options {
	o.File = path
	return o
}

// Validate checks the options for consistency.
func (o Options) Validate() error {
	if err := o.AsyncRuntime.Validate(); err != nil {
		return err
	}
	if o.EmitRuntimeShimImport && strings.TrimSpace(o.RuntimeShim) == "" {
		return errors.New("runtime shim name must be set when its import is enabled")
	}
	if prefix := strings.TrimSuffix(strings.TrimSpace(o.NamespacePrefix), "::"); prefix != "" && !rustPathPattern.MatchString(prefix) {
		return errors.Newf("namespace prefix %q is not a Rust path", o.NamespacePrefix)
	}
	return nil
}
