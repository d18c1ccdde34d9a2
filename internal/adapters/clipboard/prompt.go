package clipboard_adapter

import (
	"fmt"
	"io"
)

// WriterPrompter prints the manual-copy prompt to a writer.
type WriterPrompter struct {
	W io.Writer
}

func (p WriterPrompter) Prompt(message, value string) {
	fmt.Fprintf(p.W, "%s %s\n", message, value)
}
