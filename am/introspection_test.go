package am

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkSettingsFromSource(t *testing.T) {
	t.Run("Nested settings", func(t *testing.T) {
		settings := map[string]interface{}{
			"translate": map[string]interface{}{
				"async_runtime": "smol",
				"allow_unsafe":  true,
			},
			"output": map[string]interface{}{
				"jobs": 4,
			},
		}

		sourceMap := make(map[string]SourceInfo)
		markSettingsFromSource(settings, "", SourceUser, "/home/u/.pyrust/config.toml", sourceMap)

		assert.Len(t, sourceMap, 3)
		assert.Equal(t, SourceUser, sourceMap["translate.async_runtime"].Source)
		assert.Equal(t, "/home/u/.pyrust/config.toml", sourceMap["output.jobs"].Path)
	})

	t.Run("Runtimes table is one setting", func(t *testing.T) {
		settings := map[string]interface{}{
			"runtimes": map[string]interface{}{"tokio": "1"},
		}
		sourceMap := make(map[string]SourceInfo)
		markSettingsFromSource(settings, "", SourceProject, "/p/pyrust.toml", sourceMap)

		assert.Equal(t, map[string]SourceInfo{"runtimes": {Source: SourceProject, Path: "/p/pyrust.toml"}}, sourceMap)
	})

	t.Run("Later sources overwrite earlier ones", func(t *testing.T) {
		sourceMap := make(map[string]SourceInfo)
		section := map[string]interface{}{"output": map[string]interface{}{"jobs": 1}}
		markSettingsFromSource(section, "", SourceSystem, SystemConfigPath, sourceMap)
		markSettingsFromSource(section, "", SourceProject, "/p/pyrust.toml", sourceMap)
		assert.Equal(t, SourceProject, sourceMap["output.jobs"].Source)
	})
}

func TestFlattenSettingsWithSources(t *testing.T) {
	settings := map[string]interface{}{
		"translate": map[string]interface{}{
			"async_runtime": "tokio",
			"runtime_shim":  "stdpython",
		},
		"cache": map[string]interface{}{
			"path": "c.db",
		},
	}
	sourceMap := map[string]SourceInfo{
		"translate.runtime_shim": {Source: SourceProject, Path: "/p/pyrust.toml"},
	}
	t.Setenv("PYRUST_CACHE_PATH", "/tmp/c.db")

	introspection := &ConfigIntrospection{}
	flattenSettingsWithSources(settings, "", introspection, sourceMap)

	require.Len(t, introspection.Settings, 3)
	// Sorted by key
	assert.Equal(t, "cache.path", introspection.Settings[0].Key)
	assert.Equal(t, SourceEnvironment, introspection.Settings[0].Source)
	assert.Equal(t, "PYRUST_CACHE_PATH", introspection.Settings[0].SourcePath)

	assert.Equal(t, "translate.async_runtime", introspection.Settings[1].Key)
	assert.Equal(t, SourceDefault, introspection.Settings[1].Source)

	assert.Equal(t, SourceProject, introspection.Settings[2].Source)
	assert.Equal(t, "/p/pyrust.toml", introspection.Settings[2].SourcePath)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "PYRUST_TRANSLATE_ASYNC_RUNTIME", EnvKey("translate.async_runtime"))
	assert.Equal(t, "PYRUST_CACHE_ENABLED", EnvKey("cache.enabled"))
}

func TestGetConfigIntrospection(t *testing.T) {
	dir := isolate(t)
	project := filepath.Join(dir, ProjectConfigName)
	writeFile(t, project, "[cache]\nenabled = true\n")
	t.Setenv("PYRUST_OUTPUT_JOBS", "3")

	introspection, err := GetConfigIntrospection()
	require.NoError(t, err)
	assert.Equal(t, []string{project}, introspection.ConfigFiles)

	byKey := map[string]SettingInfo{}
	for _, s := range introspection.Settings {
		byKey[s.Key] = s
	}
	assert.Equal(t, SourceProject, byKey["cache.enabled"].Source)
	assert.Equal(t, true, byKey["cache.enabled"].Value)
	assert.Equal(t, SourceEnvironment, byKey["output.jobs"].Source)
	assert.Equal(t, SourceDefault, byKey["translate.runtime_shim"].Source)

	summary := GetConfigSummary()
	assert.Equal(t, 1, summary[SourceProject])
	assert.Equal(t, 1, summary[SourceEnvironment])
	assert.Positive(t, summary[SourceDefault])
}
