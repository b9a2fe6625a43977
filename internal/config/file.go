package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a TOML or YAML config file into flat setting values. The
// [keys] table maps action names to letters and becomes kb-<action>.
func LoadFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return flatten(path, raw)
}

func flatten(path string, raw map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		name := strings.ReplaceAll(strings.ToLower(k), "_", "-")
		if name == "keys" {
			table, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s: keys must be a table", path)
			}
			for action, letter := range table {
				out[keyPrefix+strings.ToLower(action)] = fmt.Sprint(letter)
			}
			continue
		}
		switch val := v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("%s: %s must be a single value", path, k)
		case int64:
			out[name] = seconds(name, val)
		case int:
			out[name] = seconds(name, int64(val))
		default:
			out[name] = fmt.Sprint(val)
		}
	}
	return out, nil
}

// seconds lets durations be written as plain numbers.
func seconds(name string, n int64) string {
	if strings.HasSuffix(name, "-interval") || strings.HasSuffix(name, "-timeout") {
		return fmt.Sprintf("%ds", n)
	}
	return fmt.Sprint(n)
}
