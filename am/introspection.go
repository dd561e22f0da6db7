package am

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/pyrust/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/pyrust/config.toml
	SourceUser        ConfigSource = "user"        // ~/.pyrust/config.toml
	SourceProject     ConfigSource = "project"     // nearest pyrust.toml
	SourceEnvironment ConfigSource = "environment" // PYRUST_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource // The type of config source (default, system, user, etc.)
	Path   string       // File path or environment variable name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"` // File path or env var name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	ConfigFiles []string      `json:"config_files"` // Files merged, lowest precedence first
	Settings    []SettingInfo `json:"settings"`     // All settings with sources, sorted by key
}

// GetConfigIntrospection returns every effective setting with the source
// recorded when the configuration was loaded.
func GetConfigIntrospection() (*ConfigIntrospection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}
	v := GetViper()

	loadMu.Lock()
	sources := ConfigSources
	loadMu.Unlock()

	introspection := &ConfigIntrospection{Settings: make([]SettingInfo, 0)}
	seen := map[string]bool{}
	for _, si := range sources {
		if !seen[si.Path] {
			seen[si.Path] = true
			introspection.ConfigFiles = append(introspection.ConfigFiles, si.Path)
		}
	}
	sort.Slice(introspection.ConfigFiles, func(i, j int) bool {
		return filePrecedence(introspection.ConfigFiles[i]) < filePrecedence(introspection.ConfigFiles[j])
	})

	flattenSettingsWithSources(v.AllSettings(), "", introspection, sources)
	return introspection, nil
}

// filePrecedence orders config files the way they are merged.
func filePrecedence(path string) int {
	for i, f := range configFiles() {
		if f.path == path {
			return i
		}
	}
	return len(path)
}

// markSettingsFromSource records source for every leaf key in settings.
// Later calls overwrite earlier ones, matching merge precedence.
func markSettingsFromSource(settings map[string]interface{}, prefix string, source ConfigSource, path string, sourceMap map[string]SourceInfo) {
	for key, value := range settings {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok && !isMapSetting(fullKey) {
			markSettingsFromSource(nested, fullKey, source, path, sourceMap)
			continue
		}
		sourceMap[fullKey] = SourceInfo{Source: source, Path: path}
	}
}

// isMapSetting reports keys whose value is a user-keyed table rather than a
// section.
func isMapSetting(key string) bool {
	return key == "runtimes"
}

// flattenSettingsWithSources flattens settings and assigns sources from sourceMap
func flattenSettingsWithSources(settings map[string]interface{}, prefix string, introspection *ConfigIntrospection, sourceMap map[string]SourceInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		if nested, ok := value.(map[string]interface{}); ok && !isMapSetting(fullKey) {
			flattenSettingsWithSources(nested, fullKey, introspection, sourceMap)
			continue
		}

		sourceInfo := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := sourceMap[fullKey]; ok {
			sourceInfo = si
		}
		for _, envKey := range []string{EnvKey(fullKey), envAliases[fullKey]} {
			if envKey != "" && os.Getenv(envKey) != "" {
				sourceInfo = SourceInfo{Source: SourceEnvironment, Path: envKey}
				break
			}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     sourceInfo.Source,
			SourcePath: sourceInfo.Path,
		})
	}
}

// EnvKey returns the environment variable that overrides a dotted key.
func EnvKey(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// GetConfigSummary returns the number of settings per source
func GetConfigSummary() map[ConfigSource]int {
	summary := map[ConfigSource]int{}
	introspection, err := GetConfigIntrospection()
	if err != nil {
		return summary
	}
	for _, setting := range introspection.Settings {
		summary[setting.Source]++
	}
	return summary
}
