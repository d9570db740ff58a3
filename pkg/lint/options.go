package lint

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// =============================================================================
// Rule Option Helpers
// =============================================================================
// Option maps come from YAML/JSON configuration, so numeric values may
// arrive as float64 and lists as []any. These helpers normalize access
// so rule code never repeats the type juggling.

// GetOption retrieves a typed option value from the options map.
// Returns the default value if the option is not present or has a
// different type.
func GetOption[T any](options map[string]any, key string, defaultValue T) T {
	if options == nil {
		return defaultValue
	}
	raw, ok := options[key]
	if !ok {
		return defaultValue
	}
	typed, ok := raw.(T)
	if !ok {
		return defaultValue
	}
	return typed
}

// GetIntOption retrieves an int option, accepting float64 values from
// JSON/YAML decoding.
func GetIntOption(options map[string]any, key string, defaultValue int) int {
	if options == nil {
		return defaultValue
	}
	raw, ok := options[key]
	if !ok {
		return defaultValue
	}
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return defaultValue
	}
}

// GetStringOption retrieves a string option.
func GetStringOption(options map[string]any, key string, defaultValue string) string {
	return GetOption(options, key, defaultValue)
}

// GetBoolOption retrieves a bool option.
func GetBoolOption(options map[string]any, key string, defaultValue bool) bool {
	return GetOption(options, key, defaultValue)
}

// GetStringSliceOption retrieves a []string option, accepting []any
// values from JSON/YAML decoding. Non-string elements are skipped.
func GetStringSliceOption(options map[string]any, key string, defaultValue []string) []string {
	if options == nil {
		return defaultValue
	}
	raw, ok := options[key]
	if !ok {
		return defaultValue
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return defaultValue
	}
}

// DecodeOptions decodes an option map into a typed struct using
// weakly-typed conversion, so "5" satisfies an int field and a
// single string satisfies a []string field. Target must be a pointer.
func DecodeOptions(options map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "yaml",
	})
	if err != nil {
		return fmt.Errorf("building option decoder: %w", err)
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("decoding options: %w", err)
	}
	return nil
}
