package render

import (
	"encoding/json"
	"io"
)

// JSONRenderer marshals a summary to indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
