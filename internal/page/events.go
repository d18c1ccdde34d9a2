package page

import (
	"github.com/PuerkitoBio/goquery"

	"listings-web/internal/port"
)

// on registers fn for clicks landing on, or inside, elements matching
// selector.
func (c *Controller) on(selector string, fn func(*goquery.Selection)) {
	c.handlers = append(c.handlers, handler{selector: selector, fn: fn})
}

// Click dispatches a click on the first element matching selector to every
// registered handler whose selector matches it or one of its ancestors. It
// reports whether any handler ran.
func (c *Controller) Click(selector string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.doc.Find(selector).First()
	if target.Length() == 0 {
		return false
	}

	handled := false
	for _, h := range append([]handler(nil), c.handlers...) {
		if match := target.Closest(h.selector); match.Length() > 0 {
			h.fn(match)
			handled = true
		}
	}
	return handled
}

// copyID writes the button's listing id to the clipboard, or prompts with
// it when the clipboard cannot be used.
func (c *Controller) copyID(btn *goquery.Selection) {
	id := btn.AttrOr("data-copy", "")

	var err error
	if c.clipboard == nil {
		err = port.ErrClipboardUnavailable
	} else {
		err = c.clipboard.WriteText(id)
	}
	if err != nil {
		c.log.Warn("clipboard write failed, prompting", port.Fields{"id": id, "error": err.Error()})
		if c.prompter != nil {
			c.prompter.Prompt(CopyPrompt, id)
		}
		return
	}

	label, pending := c.restoring[id]
	if !pending {
		label = btn.Text()
		c.restoring[id] = label
	}
	btn.SetText(CopiedText)
	c.generation[id]++
	gen := c.generation[id]

	// Only the latest click's timer restores the label.
	c.after(c.copyConfirm, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation[id] != gen {
			return
		}
		btn.SetText(label)
		delete(c.restoring, id)
		delete(c.generation, id)
	})
}
