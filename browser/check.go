package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"listings-web/config"
	"listings-web/internal/port"
)

// Report is what a page check observed in the browser.
type Report struct {
	URL         string
	Brand       string
	SaleCards   int
	RentCards   int
	CopyButtons int
	ErrorShown  bool
	// TabsToggle is set when each tab click left exactly its own panel visible.
	TabsToggle bool
}

// OK reports whether the page loaded and behaved.
func (r *Report) OK() bool {
	return !r.ErrorShown && r.TabsToggle && r.CopyButtons == r.SaleCards+r.RentCards
}

const panelsJS = `(() => {
  const sale = document.querySelector('#panelSale');
  const rent = document.querySelector('#panelRent');
  if (!sale || !rent) return '';
  return (sale.hidden ? 'h' : 'v') + (rent.hidden ? 'h' : 'v');
})()`

// Checker loads a served page in headless Chrome and exercises its tabs.
type Checker struct {
	cfg    *config.Config
	logger port.LoggerPort
}

func NewChecker(cfg *config.Config, logger port.LoggerPort) *Checker {
	return &Checker{cfg: cfg, logger: logger.WithFields(port.Fields{"component": "browser_check"})}
}

func (c *Checker) Check(ctx context.Context, url string) (*Report, error) {
	allocCtx, cancelAlloc := NewAllocator(ctx, &c.cfg.Browser)
	defer cancelAlloc()

	tabCtx, cancelTab := NewTabWithTimeout(allocCtx, c.cfg.Timing.CheckTimeout)
	defer cancelTab()

	// Start the browser on the tab context itself; a per-attempt timeout
	// context passed to the first Run would take Chrome down with it.
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}

	err := retryWithBackoff(tabCtx, c.cfg.Retry, c.logger, func() error {
		loadCtx, cancel := contextWithOptionalTimeout(tabCtx, c.cfg.Timing.PageLoadWait)
		defer cancel()
		return chromedp.Run(loadCtx,
			chromedp.Navigate(url),
			chromedp.WaitReady(`#tabSale`, chromedp.ByQuery),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}

	r := &Report{URL: url}
	var afterRent, afterSale string
	err = chromedp.Run(tabCtx,
		SafeText(`[data-brand]`, &r.Brand),
		chromedp.Evaluate(`document.querySelectorAll('#salesGrid article.card').length`, &r.SaleCards),
		chromedp.Evaluate(`document.querySelectorAll('#rentalsGrid article.card').length`, &r.RentCards),
		chromedp.Evaluate(`document.querySelectorAll('button[data-copy]').length`, &r.CopyButtons),
		chromedp.Evaluate(`(() => { const n = document.querySelector('#dataError'); return !!n && !n.hidden; })()`, &r.ErrorShown),
		chromedp.Click(`#tabRent`, chromedp.ByQuery),
		chromedp.Evaluate(panelsJS, &afterRent),
		chromedp.Click(`#tabSale`, chromedp.ByQuery),
		chromedp.Evaluate(panelsJS, &afterSale),
	)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", url, err)
	}
	r.TabsToggle = afterRent == "hv" && afterSale == "vh"

	c.logger.Info("page checked", port.Fields{
		"url":          url,
		"sale_cards":   r.SaleCards,
		"rent_cards":   r.RentCards,
		"error_shown":  r.ErrorShown,
		"tabs_toggle":  r.TabsToggle,
		"copy_buttons": r.CopyButtons,
	})
	return r, nil
}

func contextWithOptionalTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
