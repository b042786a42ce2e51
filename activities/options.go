// Package activities contains the concrete activity implementations the
// digital being can perform. Each activity depends only on the capability
// interfaces in the skills package, never on a concrete provider.
package activities

// Option readers for the loosely-typed maps that come out of the JSON
// constraints file. Numbers arrive as float64 per encoding/json.

func stringOption(options map[string]any, key, fallback string) string {
	if v, ok := options[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intOption(options map[string]any, key string, fallback int) int {
	switch v := options[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}
