// Package browser drives headless Chrome against a served listings page.
package browser

import (
	"context"
	"strconv"
	"time"

	"github.com/chromedp/chromedp"

	"listings-web/config"
)

// NewAllocator starts a shared Chrome process from the browser config.
// All tabs must be created from the returned context.
func NewAllocator(parent context.Context, cfg *config.BrowserConfig) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", cfg.DisableGPU),
		chromedp.Flag("no-sandbox", cfg.NoSandbox),
		chromedp.Flag("disable-setuid-sandbox", cfg.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", cfg.DisableShm),
		chromedp.UserAgent(cfg.UserAgent),
	)
	return chromedp.NewExecAllocator(parent, opts...)
}

// NewTabWithTimeout opens a tab that is cancelled after timeout.
func NewTabWithTimeout(allocCtx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	tCtx, tCancel := context.WithTimeout(allocCtx, timeout)
	bCtx, bCancel := chromedp.NewContext(tCtx)
	return bCtx, func() {
		bCancel()
		tCancel()
	}
}

// SafeText reads the text of sel into val, leaving val empty when the
// element is missing.
func SafeText(sel string, val *string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var nodes int
		if err := chromedp.Evaluate(`document.querySelectorAll(`+quoteJS(sel)+`).length`, &nodes).Do(ctx); err != nil {
			return err
		}
		if nodes == 0 {
			return nil
		}
		return chromedp.Text(sel, val, chromedp.ByQuery, chromedp.AtLeast(0)).Do(ctx)
	})
}

func quoteJS(s string) string {
	return strconv.Quote(s)
}
