package figure

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Dump writes fig as YAML. Two equal figures dump to identical bytes.
func Dump(w io.Writer, fig *Figure) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fig); err != nil {
		return fmt.Errorf("dump figure: %w", err)
	}
	return enc.Close()
}
