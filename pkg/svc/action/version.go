package action

import (
	"fmt"
	"io"

	"github.com/bibiserv/bibigrid/internal/buildmeta"
)

// Version writes the build banner to w.
func Version(w io.Writer) (int, error) {
	_, err := fmt.Fprintln(w, buildmeta.String())
	if err != nil {
		return 0, fmt.Errorf("write version: %w", err)
	}

	return 0, nil
}
