package am

import (
	"bytes"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/teranos/pyrust/errors"
	"github.com/teranos/pyrust/logger"
)

// listKeys hold string arrays; Set splits their values on commas.
var listKeys = map[string]bool{
	"translate.module_search_path": true,
	"translate.elide_modules":      true,
}

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back1 := configPath + ".back1"
	back2 := configPath + ".back2"
	back3 := configPath + ".back3"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, back3, logger.FieldError, err)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// Set writes one dotted key into the TOML file at configPath, creating the
// file if needed and keeping rotating backups of the previous version.
// Values are stored as booleans or integers when they parse as such, and
// list settings take comma-separated values.
func Set(configPath, key, value string) error {
	if !IsKnownKey(key) {
		return errors.WithHint(
			errors.Newf("unknown setting %q", key),
			"run 'pyrust am show' to list settings",
		)
	}

	config := map[string]interface{}{}
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, &config); err != nil {
			return errors.Wrapf(err, "failed to parse %s", configPath)
		}
	}

	section := config
	parts := strings.Split(key, ".")
	for _, p := range parts[:len(parts)-1] {
		next, ok := section[p].(map[string]interface{})
		if !ok {
			next = map[string]interface{}{}
			section[p] = next
		}
		section = next
	}
	section[parts[len(parts)-1]] = parseValue(key, value)

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(config); err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	// Mark this as our own write to prevent reload loops
	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}
	if err := os.WriteFile(configPath, buf.Bytes(), DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// IsKnownKey reports whether key names a setting. Any key under runtimes is
// accepted since it names a crate.
func IsKnownKey(key string) bool {
	if crate, ok := strings.CutPrefix(key, "runtimes."); ok {
		return crate != "" && !strings.Contains(crate, ".")
	}
	v := viper.New()
	SetDefaults(v)
	for _, k := range v.AllKeys() {
		if k == key {
			return true
		}
	}
	return false
}

func parseValue(key, value string) interface{} {
	if listKeys[key] {
		items := []string{}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items
	}
	if strings.HasPrefix(key, "runtimes.") {
		return value
	}
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return value
}
