package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/pyrust/am"
	"github.com/teranos/pyrust/assembler"
	"github.com/teranos/pyrust/ast"
	"github.com/teranos/pyrust/cache"
	"github.com/teranos/pyrust/codegen"
	"github.com/teranos/pyrust/display"
	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/logger"
)

// TranslateCmd translates AST documents into Rust source files
var TranslateCmd = &cobra.Command{
	Use:   "translate <ast-file>...",
	Short: "Translate AST documents into Rust",
	Long: `Translate one or more Python module ASTs into Rust source files.

Each argument is an AST document produced by tools/pyast_dump.py, as JSON
(.json) or YAML (.yaml, .yml). The module path is taken from the document
name: pkg/calc.ast.json translates module pkg::calc.

Without --out the generated Rust is printed to stdout. With --out each
module is written under the directory following its module path; --cargo
additionally lays the files out as a crate with a Cargo.toml.

Examples:
  pyrust translate calc.ast.json
  pyrust translate -o out pkg/*.ast.json
  pyrust translate -o out --cargo --runtime async-std app.ast.yaml
  pyrust translate --runtime custom --runtime-attribute my_rt::main --runtime-import my_rt app.ast.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranslate,
}

func init() {
	addTranslateFlags(TranslateCmd)
}

// addTranslateFlags registers the flags shared by translate and watch.
func addTranslateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "", "Write Rust files under this directory instead of stdout")
	cmd.Flags().String("runtime", "", "Async runtime: tokio, async-std, smol or custom")
	cmd.Flags().String("runtime-attribute", "", "Entry point attribute for the custom runtime (e.g. my_rt::main)")
	cmd.Flags().String("runtime-import", "", "Crate imported for the custom runtime")
	cmd.Flags().Bool("no-shim", false, "Do not import the runtime shim crate")
	cmd.Flags().Bool("cargo", false, "Lay the output out as a Cargo crate (requires --out)")
	cmd.Flags().String("crate-name", "", "Crate name for --cargo (default: output directory name)")
	cmd.Flags().Bool("cache", false, "Reuse translations from the cache")
	cmd.Flags().String("cache-path", "", "Cache database path")
	cmd.Flags().IntP("jobs", "j", 0, "Modules translated in parallel (default: number of CPUs)")
}

// applyFlags overlays every flag the user set on a copy of base.
func applyFlags(cmd *cobra.Command, base *am.Config) (*am.Config, error) {
	cfg := *base
	f := cmd.Flags()

	if f.Changed("out") {
		cfg.Output.Dir, _ = f.GetString("out")
	}
	if f.Changed("runtime") {
		cfg.Translate.AsyncRuntime, _ = f.GetString("runtime")
	}
	if f.Changed("runtime-attribute") {
		cfg.Translate.CustomRuntimeAttribute, _ = f.GetString("runtime-attribute")
	}
	if f.Changed("runtime-import") {
		cfg.Translate.CustomRuntimeImport, _ = f.GetString("runtime-import")
	}
	if noShim, _ := f.GetBool("no-shim"); noShim {
		cfg.Translate.EmitRuntimeShimImport = false
	}
	if f.Changed("cargo") {
		cfg.Output.Cargo, _ = f.GetBool("cargo")
	}
	if f.Changed("crate-name") {
		cfg.Output.CrateName, _ = f.GetString("crate-name")
	}
	if f.Changed("cache") {
		cfg.Cache.Enabled, _ = f.GetBool("cache")
	}
	if f.Changed("cache-path") {
		cfg.Cache.Path, _ = f.GetString("cache-path")
		cfg.Cache.Enabled = true
	}
	if f.Changed("jobs") {
		cfg.Output.Jobs, _ = f.GetInt("jobs")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Output.Cargo && cfg.Output.Dir == "" {
		return nil, errors.WithHint(
			errors.NewInvalidInputError("--cargo needs an output directory"),
			"pass -o <dir> or set output.dir in "+am.ProjectConfigName)
	}
	return &cfg, nil
}

// input is one AST document read from disk.
type input struct {
	file     string
	document []byte
	module   *ast.Module
}

// readInput reads and decodes the AST document at file.
func readInput(file string) (*input, error) {
	document, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", file)
	}
	path := sourcePath(file)

	var m *ast.Module
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		m, err = ast.DecodeYAML(bytes.NewReader(document), path)
	default:
		m, err = ast.DecodeJSON(bytes.NewReader(document), path)
	}
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "decoding %s", file),
			"regenerate the document with tools/pyast_dump.py")
	}
	return &input{file: file, document: document, module: m}, nil
}

// sourcePath maps an AST document name back to the Python file it was
// dumped from: pkg/calc.ast.json becomes pkg/calc.py. Paths outside the
// working tree keep only their base name.
func sourcePath(file string) string {
	p := filepath.Clean(file)
	if filepath.IsAbs(p) || p == ".." || strings.HasPrefix(p, ".."+string(filepath.Separator)) {
		p = filepath.Base(p)
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		if strings.HasSuffix(strings.ToLower(p), ext) {
			p = p[:len(p)-len(ext)]
			break
		}
	}
	p = strings.TrimSuffix(p, ".ast")
	if !strings.HasSuffix(p, ".py") {
		p += ".py"
	}
	return filepath.ToSlash(p)
}

// translation is one translated input as reported to the user.
type translation struct {
	*assembler.Result
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Cached bool   `json:"cached"`
}

// translator runs the translate pipeline for one configuration.
type translator struct {
	cfg   *am.Config
	opts  codegen.Options
	store *cache.Store // nil when caching is off
}

func newTranslator(cfg *am.Config) (*translator, error) {
	opts, err := cfg.Options("")
	if err != nil {
		return nil, err
	}
	t := &translator{cfg: cfg, opts: opts}
	if cfg.Cache.Enabled {
		path := cfg.GetCachePath()
		if err := os.MkdirAll(filepath.Dir(path), am.DefaultDirPermissions); err != nil {
			return nil, errors.Wrapf(err, "creating cache directory for %s", path)
		}
		store, err := cache.OpenStore(path)
		if err != nil {
			return nil, err
		}
		t.store = store
	}
	return t, nil
}

func (t *translator) Close() error {
	if t.store == nil {
		return nil
	}
	return t.store.Close()
}

// translate reads every file and translates the modules the cache cannot
// answer. Results are in argument order.
func (t *translator) translate(ctx context.Context, files []string) ([]*translation, error) {
	out := make([]*translation, len(files))
	keys := make([]string, len(files))
	var pending []*ast.Module
	var pendingIdx []int

	for i, file := range files {
		in, err := readInput(file)
		if err != nil {
			return nil, err
		}
		out[i] = &translation{Input: file}
		if t.store != nil {
			keys[i] = cache.Key(in.module.Path, in.document, t.opts)
			res, err := t.store.Get(ctx, keys[i])
			switch {
			case err == nil:
				out[i].Result = res
				out[i].Cached = true
				continue
			case !errors.IsNotFoundError(err):
				logger.Warnw("cache lookup failed", logger.FieldPath, file, logger.FieldError, err)
			}
		}
		pending = append(pending, in.module)
		pendingIdx = append(pendingIdx, i)
	}

	results, err := assembler.TranslateAll(ctx, pending, t.opts, t.cfg.Output.Jobs)
	if err != nil {
		return nil, withTranslateHint(err)
	}
	for j, res := range results {
		i := pendingIdx[j]
		out[i].Result = res
		if t.store != nil {
			if err := t.store.Put(ctx, keys[i], res); err != nil {
				logger.Warnw("cache store failed", logger.FieldModule, res.Name, logger.FieldError, err)
			}
		}
	}
	return out, nil
}

// write places every translation under the output directory, plus a
// Cargo.toml when the crate layout is on.
func (t *translator) write(items []*translation) error {
	dir := t.cfg.Output.Dir
	root := dir
	if t.cfg.Output.Cargo {
		root = filepath.Join(dir, "src")
	}

	results := make([]*assembler.Result, 0, len(items))
	for _, it := range items {
		it.Output = filepath.Join(root, filepath.FromSlash(assembler.OutputPath(it.Name)))
		if err := writeFile(it.Output, it.Source); err != nil {
			return err
		}
		results = append(results, it.Result)
	}
	if !t.cfg.Output.Cargo {
		return nil
	}

	name := t.cfg.Output.CrateName
	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return errors.Wrapf(err, "resolving %s", dir)
		}
		name = filepath.Base(abs)
	}
	manifest, err := assembler.Manifest(name, results, t.opts, t.cfg.Runtimes)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, "Cargo.toml"), manifest)
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), am.DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, []byte(content), am.DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// withTranslateHint attaches guidance for the failures users can act on.
func withTranslateHint(err error) error {
	switch {
	case errors.IsUnsupported(err):
		return errors.WithHint(err, "the construct has no Rust rendering; rewrite it or leave the module out")
	case errors.IsUnknownType(err):
		return errors.WithHint(err, "only builtin annotations (int, str, list[...], ...) have Rust types")
	case errors.IsLookup(err):
		return errors.WithHint(err, "check translate.module_search_path and the relative import depth")
	}
	return err
}

// run executes one full translate pass and reports it.
func (t *translator) run(ctx context.Context, cmd *cobra.Command, files []string) error {
	start := time.Now()
	items, err := t.translate(ctx, files)
	if err != nil {
		return err
	}
	if t.cfg.Output.Dir != "" {
		if err := t.write(items); err != nil {
			return err
		}
	}
	return report(cmd, items, t.cfg.Output.Dir != "", time.Since(start))
}

func report(cmd *cobra.Command, items []*translation, wrote bool, elapsed time.Duration) error {
	if display.ShouldOutputJSON(cmd) {
		return display.WriteJSON(cmd.OutOrStdout(), items)
	}
	if !wrote {
		return printSources(cmd.OutOrStdout(), items)
	}

	var cached int
	for _, it := range items {
		if it.Cached {
			cached++
		}
		if !logger.ShouldOutput(Verbosity, logger.OutputProgress) {
			continue
		}
		line := fmt.Sprintf("%s → %s", it.Name, it.Output)
		if it.Cached && logger.ShouldOutput(Verbosity, logger.OutputCache) {
			line += " (cached)"
		}
		pterm.Info.Println(line)
	}

	summary := fmt.Sprintf("Translated %d module(s)", len(items))
	if cached > 0 {
		summary += fmt.Sprintf(", %d from cache", cached)
	}
	if logger.ShouldOutput(Verbosity, logger.OutputTiming) {
		summary += fmt.Sprintf(" in %s", elapsed.Round(time.Millisecond))
	}
	pterm.Success.Println(summary)
	return nil
}

// printSources writes generated Rust to w, headed by the module name when
// there is more than one.
func printSources(w io.Writer, items []*translation) error {
	for i, it := range items {
		if len(items) > 1 {
			if i > 0 {
				if _, err := fmt.Fprintln(w); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintf(w, "// ---- %s ----\n", it.Name); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, it.Source); err != nil {
			return err
		}
	}
	return nil
}

func runTranslate(cmd *cobra.Command, args []string) error {
	base, err := LoadConfig()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	cfg, err := applyFlags(cmd, base)
	if err != nil {
		return err
	}
	t, err := newTranslator(cfg)
	if err != nil {
		return err
	}
	defer t.Close()

	return t.run(cmd.Context(), cmd, args)
}
