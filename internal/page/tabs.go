package page

import (
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"listings-web/models"
)

// SelectTab shows the panel for mode and hides the other one.
func (c *Controller) SelectTab(mode models.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectTab(mode)
}

func (c *Controller) selectTab(mode models.Mode) {
	isSale := mode != models.ModeRent
	c.el.tabSale.SetAttr("aria-selected", strconv.FormatBool(isSale))
	c.el.tabRent.SetAttr("aria-selected", strconv.FormatBool(!isSale))
	setHidden(c.el.panelSale, !isSale)
	setHidden(c.el.panelRent, isSale)
}

// Visible reports whether the panel for mode is shown.
func (c *Controller) Visible(mode models.Mode) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	panel := c.el.panelSale
	if mode == models.ModeRent {
		panel = c.el.panelRent
	}
	_, hidden := panel.Attr("hidden")
	return panel.Length() > 0 && !hidden
}

func setHidden(s *goquery.Selection, hidden bool) {
	if hidden {
		s.SetAttr("hidden", "")
		return
	}
	s.RemoveAttr("hidden")
}
