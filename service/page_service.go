package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"listings-web/config"
	"listings-web/internal/card"
	"listings-web/internal/domain"
	"listings-web/internal/format"
	"listings-web/internal/page"
	"listings-web/internal/port"
	"listings-web/models"
)

// Page is one built page.
type Page struct {
	HTML  string
	State page.State
	// Err is the load failure behind StateErrorShown.
	Err error
}

// PageService builds the listings page from a listing source.
type PageService struct {
	source       domain.ListingSource
	renderer     *card.Renderer
	fetchTimeout time.Duration
	copyConfirm  time.Duration
	logger       port.LoggerPort
	now          func() time.Time
}

func NewPageService(
	src domain.ListingSource,
	cfg *config.Config,
	logger port.LoggerPort,
) *PageService {

	return &PageService{
		source:       src,
		renderer:     card.New(format.New(cfg.Page.Locale)),
		fetchTimeout: cfg.Data.FetchTimeout,
		copyConfirm:  cfg.Page.CopyConfirm,
		logger:       logger.WithFields(port.Fields{"component": "page_service"}),
		now:          time.Now,
	}
}

func (s *PageService) load(ctx context.Context) (*models.ListingSet, error) {
	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}
	return s.source.Load(ctx)
}

func (s *PageService) controller(opts page.Options) (*page.Controller, error) {
	opts.Renderer = s.renderer
	opts.Logger = s.logger
	opts.Now = s.now
	opts.CopyConfirm = s.copyConfirm
	return page.NewFromShell(opts)
}

// Build loads the listings and renders the page. A load failure is not an
// error here: the page is returned with the error notice shown.
func (s *PageService) Build(ctx context.Context) (*Page, error) {
	c, err := s.controller(page.Options{})
	if err != nil {
		return nil, err
	}

	loadErr := c.Start(ctx, domain.SourceFunc(s.load))

	html, err := c.HTML()
	if err != nil {
		return nil, fmt.Errorf("serialize page: %w", err)
	}
	return &Page{HTML: html, State: c.State(), Err: loadErr}, nil
}

// Payload returns the current listings as properties.json.
func (s *PageService) Payload(ctx context.Context) ([]byte, error) {
	set, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return models.EncodePayload(models.NewPayload(set))
}

// Export loads the listings and hands them to repo.
func (s *PageService) Export(ctx context.Context, repo domain.ListingRepository) (int, error) {
	set, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if err := repo.Save(ctx, set); err != nil {
		return 0, fmt.Errorf("save listings: %w", err)
	}
	n := len(set.Sales) + len(set.Rentals)
	s.logger.Info("listings exported", port.Fields{"count": n})
	return n, nil
}

// Copy presses the copy button of listing id on a freshly built page.
func (s *PageService) Copy(ctx context.Context, id string, clip port.Clipboard, prompter port.Prompter) error {
	c, err := s.controller(page.Options{
		Clipboard: clip,
		Prompter:  prompter,
		// Nobody looks at the button afterwards.
		After: func(time.Duration, func()) {},
	})
	if err != nil {
		return err
	}
	if err := c.Start(ctx, domain.SourceFunc(s.load)); err != nil {
		return err
	}
	if !c.Click(copySelector(id)) {
		return fmt.Errorf("no listing with id %q", id)
	}
	return nil
}

func copySelector(id string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(id)
	return `button[data-copy="` + escaped + `"]`
}

// WriteStatic renders the page into dir together with its assets and
// properties.json, ready for any static file host.
func (s *PageService) WriteStatic(ctx context.Context, dir string) error {
	p, err := s.Build(ctx)
	if err != nil {
		return err
	}
	if p.Err != nil {
		return fmt.Errorf("render page: %w", p.Err)
	}
	payload, err := s.Payload(ctx)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(p.HTML), 0o644); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "properties.json"), payload, 0o644); err != nil {
		return err
	}

	return fs.WalkDir(page.Assets, "assets", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == "assets/index.html" {
			return nil
		}
		data, err := page.Assets.ReadFile(path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
}
