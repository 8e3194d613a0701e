package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bjaus/formcheck"
)

// ErrNotFound is returned when an input file does not exist.
var ErrNotFound = errors.New("file not found")

// StdinPath selects standard input instead of a file.
const StdinPath = "-"

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == StdinPath {
		return io.ReadAll(stdin)
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return b, err
}

// LoadForm reads a form configuration. Files ending in .yaml or .yml are
// decoded as YAML, anything else as JSON.
func LoadForm(path string) (formcheck.FormConfig, error) {
	var cfg formcheck.FormConfig
	raw, err := readInput(path, nil)
	if err != nil {
		return cfg, err
	}
	if isYAML(path) {
		err = yaml.Unmarshal(raw, &cfg)
	} else {
		err = json.Unmarshal(raw, &cfg)
	}
	if err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

// LoadSubmission reads submitted form data and returns it as JSON. YAML
// submissions are converted so every submission reaches the validator
// through the same inspector.
func LoadSubmission(path string, stdin io.Reader) ([]byte, error) {
	raw, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}
	if !isYAML(path) {
		return raw, nil
	}

	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if data == nil {
		data = map[string]any{}
	}
	out, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	return out, nil
}
