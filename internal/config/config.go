// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File mirrors the optional YAML etiquette/tuning file. Pointer fields
// distinguish "absent" from an explicit zero.
type File struct {
	Tool          string   `yaml:"tool"`
	Email         string   `yaml:"email"`
	APIKey        string   `yaml:"api_key"`
	RetryAttempts *int     `yaml:"retry_attempts"`
	PauseSeconds  *float64 `yaml:"pause_seconds"`
}

// Load reads and strictly decodes path; unknown keys are errors so typos in
// etiquette files surface instead of silently lowering throughput.
func Load(path string) (File, error) {
	var f File
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return f, fmt.Errorf("config %s: %w", path, err)
	}
	if f.RetryAttempts != nil && *f.RetryAttempts < 0 {
		return f, fmt.Errorf("config %s: retry_attempts must be >= 0", path)
	}
	if f.PauseSeconds != nil && *f.PauseSeconds < 0 {
		return f, fmt.Errorf("config %s: pause_seconds must be >= 0", path)
	}
	return f, nil
}
