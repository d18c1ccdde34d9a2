package clipboard_adapter

import (
	"fmt"

	"github.com/atotto/clipboard"

	"listings-web/internal/port"
)

// System writes to the OS clipboard (xclip/xsel/wl-copy, pbcopy, or the
// Windows clipboard).
type System struct{}

func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return port.ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", port.ErrClipboardUnavailable, err)
	}
	return nil
}
