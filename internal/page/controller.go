// Package page populates the listings page shell and wires its
// interactions: tab switching and copying a listing id.
package page

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"listings-web/internal/card"
	"listings-web/internal/domain"
	"listings-web/internal/links"
	"listings-web/internal/port"
	"listings-web/models"
)

//go:embed assets
var Assets embed.FS

const shellPath = "assets/index.html"

const (
	ctaMessage    = "Hola, quiero cotizar una tasación y plan de venta/arriendo."
	stickyMessage = "Hola, vengo desde la web. ¿Me ayudas con una consulta?"

	CopiedText = "¡Copiado!"
	CopyPrompt = "Copia el ID:"

	defaultCopyConfirm = 1200 * time.Millisecond
)

// ErrAlreadyStarted is returned by Start on a controller that has left
// the loading state.
var ErrAlreadyStarted = errors.New("page controller already started")

var errNoListings = errors.New("listing source returned nothing")

// State is the page lifecycle: loading, then ready or error-shown.
type State int

const (
	StateLoading State = iota
	StateReady
	StateErrorShown
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateErrorShown:
		return "error-shown"
	}
	return "unknown"
}

// Options are the collaborators of a Controller. Zero values get defaults.
type Options struct {
	Renderer  *card.Renderer
	Clipboard port.Clipboard
	Prompter  port.Prompter
	Logger    port.LoggerPort
	Now       func() time.Time

	// After schedules f once d has elapsed. It must not call f before
	// returning.
	After       func(d time.Duration, f func())
	CopyConfirm time.Duration
}

type handler struct {
	selector string
	fn       func(target *goquery.Selection)
}

// elements are the attachment points bound once at construction. A missing
// element is an empty selection and every write to it is a no-op.
type elements struct {
	body                                   *goquery.Selection
	brand, tagline, hours, address         *goquery.Selection
	phone, email                           *goquery.Selection
	waCTA, waSticky, phoneLink, emailLink  *goquery.Selection
	salesGrid, rentalsGrid                 *goquery.Selection
	tabSale, tabRent, panelSale, panelRent *goquery.Selection
	year, updated, dataError               *goquery.Selection
}

// Controller owns one page document. It is safe for concurrent use; calls
// are serialized.
type Controller struct {
	mu         sync.Mutex
	doc        *goquery.Document
	el         elements
	handlers   []handler
	state      State
	restoring  map[string]string
	generation map[string]uint64 // copy clicks per id while confirming

	renderer    *card.Renderer
	clipboard   port.Clipboard
	prompter    port.Prompter
	log         port.LoggerPort
	now         func() time.Time
	after       func(time.Duration, func())
	copyConfirm time.Duration
}

// NewShell parses the embedded page shell.
func NewShell() (*goquery.Document, error) {
	raw, err := Assets.ReadFile(shellPath)
	if err != nil {
		return nil, fmt.Errorf("read page shell: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse page shell: %w", err)
	}
	return doc, nil
}

// NewFromShell returns a controller over a fresh copy of the page shell.
func NewFromShell(opts Options) (*Controller, error) {
	doc, err := NewShell()
	if err != nil {
		return nil, err
	}
	return New(doc, opts), nil
}

// New binds a controller to doc.
func New(doc *goquery.Document, opts Options) *Controller {
	c := &Controller{
		doc:         doc,
		state:       StateLoading,
		restoring:   make(map[string]string),
		generation:  make(map[string]uint64),
		renderer:    opts.Renderer,
		clipboard:   opts.Clipboard,
		prompter:    opts.Prompter,
		log:         opts.Logger,
		now:         opts.Now,
		after:       opts.After,
		copyConfirm: opts.CopyConfirm,
	}
	if c.renderer == nil {
		c.renderer = card.New(nil)
	}
	if c.log == nil {
		c.log = port.NopLogger{}
	}
	c.log = c.log.WithFields(port.Fields{"component": "page"})
	if c.now == nil {
		c.now = time.Now
	}
	if c.after == nil {
		c.after = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if c.copyConfirm <= 0 {
		c.copyConfirm = defaultCopyConfirm
	}

	find := doc.Find
	c.el = elements{
		body:        find("body"),
		brand:       find("[data-brand]"),
		tagline:     find("[data-tagline]"),
		hours:       find("[data-hours]"),
		address:     find("[data-address]"),
		phone:       find("[data-phone]"),
		email:       find("[data-email]"),
		waCTA:       find("[data-wa-cta]"),
		waSticky:    find("[data-wa-sticky]"),
		phoneLink:   find("[data-phone-link]"),
		emailLink:   find("[data-email-link]"),
		salesGrid:   find("#salesGrid"),
		rentalsGrid: find("#rentalsGrid"),
		tabSale:     find("#tabSale"),
		tabRent:     find("#tabRent"),
		panelSale:   find("#panelSale"),
		panelRent:   find("#panelRent"),
		year:        find("[data-year]"),
		updated:     find("[data-updated]"),
		dataError:   find("#dataError"),
	}
	return c
}

// Start loads the listing set once and populates the page. On failure the
// error notice is revealed and the error returned; there is no retry.
func (c *Controller) Start(ctx context.Context, src domain.ListingSource) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return ErrAlreadyStarted
	}

	set, err := src.Load(ctx)
	if err == nil && set == nil {
		err = errNoListings
	}
	if err != nil {
		return c.fail(err)
	}
	if err := c.populate(set); err != nil {
		return c.fail(err)
	}
	c.state = StateReady
	c.log.Debug("page ready", port.Fields{"sales": len(set.Sales), "rentals": len(set.Rentals)})
	return nil
}

func (c *Controller) fail(err error) error {
	c.log.Error("failed to load listings", err, nil)
	c.el.dataError.RemoveAttr("hidden")
	c.state = StateErrorShown
	return err
}

// populate renders both grids before writing anything, so a rendering
// failure leaves the document untouched.
func (c *Controller) populate(set *models.ListingSet) error {
	sales, err := c.renderer.Grid(set.Sales, models.ModeSale, set.Office)
	if err != nil {
		return err
	}
	rentals, err := c.renderer.Grid(set.Rentals, models.ModeRent, set.Office)
	if err != nil {
		return err
	}

	office := set.Office
	c.el.brand.SetText(office.Brand)
	c.el.tagline.SetText(office.Tagline)
	c.el.hours.SetText(office.Hours)
	c.el.address.SetText(office.Address)
	c.el.phone.SetText(office.PhoneDisplay)
	c.el.email.SetText(office.Email)

	c.el.waCTA.SetAttr("href", links.Chat(office.WhatsApp, ctaMessage))
	c.el.waSticky.SetAttr("href", links.Chat(office.WhatsApp, stickyMessage))
	c.el.phoneLink.SetAttr("href", links.Tel(office.PhoneDisplay))
	c.el.emailLink.SetAttr("href", links.Mail(office.Email))

	c.el.salesGrid.SetHtml(string(sales))
	c.el.rentalsGrid.SetHtml(string(rentals))

	c.on("button[data-copy]", c.copyID)
	c.on("#tabSale", func(*goquery.Selection) { c.selectTab(models.ModeSale) })
	c.on("#tabRent", func(*goquery.Selection) { c.selectTab(models.ModeRent) })
	c.selectTab(models.ModeSale)

	c.el.body.SetAttr("data-copy-confirm", strconv.FormatInt(c.copyConfirm.Milliseconds(), 10))
	c.el.year.SetText(strconv.Itoa(c.now().Year()))
	c.el.updated.SetText(set.Updated)
	return nil
}

// State reports where the page is in its lifecycle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HTML serializes the current document.
func (c *Controller) HTML() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Html()
}

// Find runs a read-only query against the current document.
func (c *Controller) Find(selector string) *goquery.Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Find(selector)
}
