package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrInvalidConstraints is returned when the constraints file is missing or
// cannot be parsed.
var ErrInvalidConstraints = errors.New("invalid constraints configuration")

// Descriptor describes one activity as declared in the constraints file.
// Descriptors change only when the constraints are reloaded, never mid-pass.
type Descriptor struct {
	// Name is the unique activity identifier.
	Name string `json:"name"`
	// Enabled controls whether the runner may invoke the activity.
	Enabled bool `json:"enabled"`
	// Options carries activity-specific configuration from the
	// constraints file.
	Options map[string]any `json:"options,omitempty"`
}

// parseConstraints decodes the JSON constraints document: an object mapping
// activity name to {"enabled": bool, ...options}. Declaration order is
// preserved, which is why this walks the token stream instead of decoding
// into a map.
func parseConstraints(r io.Reader) ([]Descriptor, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConstraints, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top-level value must be an object", ErrInvalidConstraints)
	}

	var descriptors []Descriptor
	seen := make(map[string]bool)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConstraints, err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrInvalidConstraints, keyTok)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: duplicate activity %q", ErrInvalidConstraints, name)
		}
		seen[name] = true

		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			return nil, fmt.Errorf("%w: activity %q: %v", ErrInvalidConstraints, name, err)
		}

		desc := Descriptor{Name: name, Options: make(map[string]any)}
		for k, v := range body {
			if k == "enabled" {
				enabled, ok := v.(bool)
				if !ok {
					return nil, fmt.Errorf("%w: activity %q: enabled must be a boolean", ErrInvalidConstraints, name)
				}
				desc.Enabled = enabled
				continue
			}
			desc.Options[k] = v
		}

		descriptors = append(descriptors, desc)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConstraints, err)
	}

	return descriptors, nil
}

// loadConstraintsFile opens and parses the constraints file at path.
func loadConstraintsFile(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConstraints, err)
	}
	defer f.Close()

	return parseConstraints(f)
}
