package commands

import (
	"github.com/spf13/viper"

	"github.com/teranos/pyrust/am"
)

var (
	// Verbosity is the -v count, set by the root command before any run.
	Verbosity int
	// ConfigFile, when set, replaces the config cascade with one file.
	ConfigFile string
)

// LoadConfig returns the configuration commands run with.
func LoadConfig() (*am.Config, error) {
	if ConfigFile != "" {
		return am.LoadFromFile(ConfigFile)
	}
	return am.Load()
}

// configViper returns the Viper instance behind LoadConfig.
func configViper() (*viper.Viper, error) {
	if ConfigFile != "" {
		return am.FileViper(ConfigFile)
	}
	return am.GetViper(), nil
}
