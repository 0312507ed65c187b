package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Texter is implemented by payloads with a human-readable rendering.
type Texter interface {
	Text() string
}

// Write writes output in the requested format.
//
// Supported formats:
// - json (default)
// - text
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "text":
		return WriteText(w, v)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteJSON writes strict JSON output for CLI commands.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteText renders a Texter, looking through a {"data": ...} envelope. Anything else
// falls back to indented JSON.
func WriteText(w io.Writer, v any) error {
	if env, ok := v.(map[string]any); ok {
		if d, ok := env["data"]; ok {
			v = d
		}
	}
	if t, ok := v.(Texter); ok {
		_, err := fmt.Fprintln(w, t.Text())
		return err
	}
	return WriteJSON(w, v, true)
}

func jsonOf(v any) ([]byte, error) {
	return json.Marshal(v)
}
