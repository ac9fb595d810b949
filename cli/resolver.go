package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/fatexpr/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML configuration
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document is converted as follows:
//   - Top-level keys name flags; "-" and "_" are interchangeable
//   - Nested maps are flattened, joining keys with "-"
//   - Sequences become repeated values of slice flags
//   - Numbers are passed to Kong as strings
//
// Example config file:
//
//	log:
//	  level: debug
//	  pretty: false
//	order: event
//	max_depth: 64
//	var:
//	  - rate=1.5
//
// This configuration will be applied to Kong flags:
//
//	--log-level=debug --no-log-pretty --order=event --max-depth=64 --var=rate=1.5
//
// Command-line flags override config file values. A malformed file is
// reported and otherwise ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		if err := yaml.NewDecoder(r).DecodeContext(ctx, &doc); err != nil {
			if !errors.Is(err, io.EOF) {
				log.WarnContext(ctx, "ignoring configuration file", slog.Any("error", err))
			}

			return config{}, nil
		}

		cfg := make(config, len(doc))
		cfg.flatten("", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] for YAML configuration files. Keys are
// normalized flag names.
type config map[string]any

// normalize returns the flag name form of a configuration key.
func normalize(key string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "_", "-"))
}

// flatten adds the entries of m to c, qualifying nested keys by prefix.
func (c config) flatten(prefix string, m map[string]any) {
	for key, value := range m {
		name := normalize(key)
		if prefix != "" {
			name = prefix + "-" + name
		}

		if sub, ok := value.(map[string]any); ok {
			c.flatten(name, sub)

			continue
		}

		if v := flagValue(value); v != nil {
			c[name] = v
		}
	}
}

// flagValue converts a decoded YAML value into a form Kong can decode.
// Scalars other than booleans become strings; sequences become []any of
// strings. Nulls yield nil.
func flagValue(value any) any {
	switch v := value.(type) {
	case nil:
		return nil

	case bool, string:
		return v

	case uint64:
		return strconv.FormatUint(v, 10)

	case int64:
		return strconv.FormatInt(v, 10)

	case int:
		return strconv.Itoa(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		out := make([]any, 0, len(v))

		for _, el := range v {
			if s := flagValue(el); s != nil {
				out = append(out, fmt.Sprint(s))
			}
		}

		return out

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Not found returns nil to let Kong use defaults.
	return c[normalize(flag.Name)], nil
}
