package app

import (
	"errors"
	"fmt"
	"sync"

	"golang.design/x/clipboard"
)

// ErrClipboardUnavailable is returned when the system clipboard could not be
// initialized (for example a headless session or a build without cgo).
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// systemClipboard writes text to the OS clipboard. Initialization happens on
// first use so a missing clipboard never blocks startup.
type systemClipboard struct {
	once sync.Once
	err  error
}

func (c *systemClipboard) WriteText(text string) error {
	c.once.Do(func() {
		if err := clipboard.Init(); err != nil {
			c.err = fmt.Errorf("%w: %v", ErrClipboardUnavailable, err)
		}
	})
	if c.err != nil {
		return c.err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
