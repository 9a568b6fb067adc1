package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] that reads flag defaults from the
// options section of the YAML config file.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys are flag names. Hyphens may be written as underscores:
//
//	options:
//	  prompt: ask
//	  log_level: debug
//	  log-pretty: false
//
// Command-line flags override config file values. A file that cannot be
// parsed yields no defaults; the config commands report the error.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return config{}, nil //nolint:nilerr
	}

	var file struct {
		Options map[string]any `yaml:"options"`
	}

	err = yaml.Unmarshal(data, &file)
	if err != nil {
		return config{}, nil //nolint:nilerr
	}

	opts := make(config, len(file.Options))

	for key, value := range file.Options {
		opts[key] = native(value)
	}

	return opts, nil
}

// config implements [kong.Resolver] over the options of a config file.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// native converts a decoded YAML value to one kong can map onto a flag.
// Kong requires numbers as strings for parsing.
func native(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		s := make([]string, len(v))
		for i, e := range v {
			s[i] = strings.TrimSpace(toString(native(e)))
		}

		return strings.Join(s, ",")
	default:
		return v
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}
