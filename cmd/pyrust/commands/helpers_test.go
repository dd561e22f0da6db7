package commands

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/teranos/pyrust/am"
)

func TestMain(m *testing.M) {
	pterm.DisableOutput()
	os.Exit(m.Run())
}

// workspace copies testdata into a fresh working directory with its own
// HOME and returns the directory.
func workspace(t *testing.T) string {
	t.Helper()
	src, err := filepath.Abs("testdata")
	require.NoError(t, err)

	dir := t.TempDir()
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(src, path)
		target := filepath.Join(dir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, am.DefaultDirPermissions)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, am.DefaultFilePermissions)
	})
	require.NoError(t, err)

	t.Setenv("HOME", dir)
	chdir(t, dir)
	ConfigFile = ""
	Verbosity = 0
	am.Reset()
	t.Cleanup(am.Reset)
	return dir
}

// newCommand returns a command carrying the translate flags and --json,
// writing its output to the returned buffer.
func newCommand(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addTranslateFlags(cmd)
	cmd.Flags().Bool("json", false, "")
	cmd.Flags().Duration("older-than", DefaultPruneAge, "")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	return cmd, &out
}

func setFlags(t *testing.T, cmd *cobra.Command, kv ...string) {
	t.Helper()
	for i := 0; i < len(kv); i += 2 {
		require.NoError(t, cmd.Flags().Set(kv[i], kv[i+1]), kv[i])
	}
}

// translatorFor builds a translator from the loaded config plus cmd's flags.
func translatorFor(t *testing.T, cmd *cobra.Command) *translator {
	t.Helper()
	base, err := LoadConfig()
	require.NoError(t, err)
	cfg, err := applyFlags(cmd, base)
	require.NoError(t, err)
	tr, err := newTranslator(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { tr.Close() })
	return tr
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), am.DefaultDirPermissions))
	require.NoError(t, os.WriteFile(path, []byte(content), am.DefaultFilePermissions))
}
