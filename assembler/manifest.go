package assembler

import (
	"bytes"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/pyrust/codegen"
	"github.com/teranos/pyrust/errors"
)

// DefaultCrateVersions are the version requirements used for crates the
// generated code depends on when the caller does not override them.
var DefaultCrateVersions = map[string]string{
	codegen.DefaultRuntimeShim: "0.1",
	"tokio":                    "1",
	"async-std":                "1",
	"smol-potat":               "1",
}

// runtimeFeatures are the crate features an async entry point needs.
var runtimeFeatures = map[string][]string{
	"tokio":     {"full"},
	"async-std": {"attributes"},
}

type cargoManifest struct {
	Package      cargoPackage   `toml:"package"`
	Dependencies map[string]any `toml:"dependencies"`
	Bin          []cargoBin     `toml:"bin,omitempty"`
}

type cargoPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

type cargoDependency struct {
	Version  string   `toml:"version"`
	Features []string `toml:"features,omitempty"`
}

type cargoBin struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// Manifest renders a Cargo.toml for a crate holding the translated results.
// versions overrides DefaultCrateVersions per crate name; every requirement
// must parse as a semver constraint. The shim is added when the options
// import it, the runtime crate when any result is async, and one [[bin]]
// per result with an entry point.
func Manifest(name string, results []*Result, opts codegen.Options, versions map[string]string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.NewInvalidInputError("crate name is required")
	}
	m := cargoManifest{
		Package:      cargoPackage{Name: CrateName(name), Version: "0.1.0", Edition: "2021"},
		Dependencies: map[string]any{},
	}

	var async bool
	for _, r := range results {
		async = async || r.Async
		if r.EntryPoint {
			m.Bin = append(m.Bin, cargoBin{
				Name: CrateName(strings.ReplaceAll(r.Name, "::", "_")),
				Path: "src/" + OutputPath(r.Name),
			})
		}
	}
	sort.Slice(m.Bin, func(i, j int) bool { return m.Bin[i].Name < m.Bin[j].Name })

	if opts.EmitRuntimeShimImport {
		crate := CrateName(opts.RuntimeShim)
		v, err := crateVersion(crate, versions)
		if err != nil {
			return "", err
		}
		m.Dependencies[crate] = v
	}
	if async {
		crate := runtimeCrate(opts.AsyncRuntime)
		v, err := crateVersion(crate, versions)
		if err != nil {
			return "", err
		}
		if features := runtimeFeatures[crate]; len(features) > 0 {
			m.Dependencies[crate] = cargoDependency{Version: v, Features: features}
		} else {
			m.Dependencies[crate] = v
		}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(m); err != nil {
		return "", errors.Wrap(err, "encoding Cargo.toml")
	}
	return buf.String(), nil
}

// crateVersion resolves and validates the version requirement for crate.
// Crates without a known requirement accept any version.
func crateVersion(crate string, versions map[string]string) (string, error) {
	v, ok := versions[crate]
	if !ok {
		v, ok = DefaultCrateVersions[crate]
	}
	if !ok {
		return "*", nil
	}
	if err := ValidateVersion(v); err != nil {
		return "", errors.Wrapf(err, "crate %s", crate)
	}
	return v, nil
}

// ValidateVersion checks a Cargo version requirement. Cargo's bare
// requirements ("1", "0.1") are caret ranges, which semver accepts as is.
func ValidateVersion(req string) error {
	if _, err := semver.NewConstraint(req); err != nil {
		return errors.Wrapf(err, "invalid version requirement %q", req)
	}
	return nil
}

// runtimeCrate returns the crate that provides r's import path.
func runtimeCrate(r codegen.AsyncRuntime) string {
	root := r.Import()
	if i := strings.Index(root, "::"); i >= 0 {
		root = root[:i]
	}
	return CrateName(root)
}

// CrateName converts a Rust path segment or module name to Cargo's
// conventional dashed form.
func CrateName(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "_", "-")
}
