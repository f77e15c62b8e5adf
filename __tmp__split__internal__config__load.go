package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a project settings file (YAML) and overlays it onto Default(). A missing file is
// not an error: the caller gets default settings, matching pyright's "no pyrightconfig" behavior.
func Load(path string) (*Settings, error) {
	settings := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var overlay Settings
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	for name, level := range overlay.Rules {
		settings.Rules[name] = level
	}
	if overlay.ExecutionEnvironment.LanguageVersion != "" {
		settings.ExecutionEnvironment.LanguageVersion = overlay.ExecutionEnvironment.LanguageVersion
	}
	if overlay.ExecutionEnvironment.Platform != "" {
		settings.ExecutionEnvironment.Platform = overlay.ExecutionEnvironment.Platform
	}
	settings.Strict = settings.Strict || overlay.Strict

	return settings, nil
}

// Dump renders settings back to YAML, used by the CLI's -dump-config flag.
func Dump(settings *Settings) ([]byte, error) {
	return yaml.Marshal(settings)
}


