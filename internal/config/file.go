package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// File is the on-disk shape of a pool's configuration. Field names match
// the YAML keys operators write by hand.
type File struct {
	MaxSegments int           `yaml:"max_segments"`
	BaseDir     string        `yaml:"base_dir"`
	CatalogPath string        `yaml:"catalog_path"`
	LockDir     string        `yaml:"lock_dir"`
	LockTimeout time.Duration `yaml:"lock_timeout"`
}

// Validate reports every violation at once, in the same errors.Join style
// used by the pool's own Config.
func (f File) Validate() error {
	var errs []error
	if f.MaxSegments <= 0 {
		errs = append(errs, errors.New("max_segments must be greater than zero"))
	}
	if f.BaseDir == "" {
		errs = append(errs, errors.New("base_dir must not be empty"))
	}
	if f.CatalogPath == "" {
		errs = append(errs, errors.New("catalog_path must not be empty"))
	}
	if f.LockDir == "" {
		errs = append(errs, errors.New("lock_dir must not be empty"))
	}
	if f.LockTimeout < 0 {
		errs = append(errs, errors.New("lock_timeout must not be negative"))
	}
	return errors.Join(errs...)
}

// Load reads and validates a File from path.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := f.Validate(); err != nil {
		return File{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return f, nil
}
