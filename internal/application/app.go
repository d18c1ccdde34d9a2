// Package application wires configuration, data sources, and adapters
// into the operations exposed by the CLI.
package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listings-web/browser"
	"listings-web/config"
	clipboard_adapter "listings-web/internal/adapters/clipboard"
	"listings-web/internal/domain"
	"listings-web/internal/port"
	"listings-web/internal/server"
	"listings-web/service"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg    *config.Config
	logger port.LoggerPort

	// Clipboard defaults to the system clipboard.
	Clipboard port.Clipboard
	// Out receives command output and the manual-copy prompt.
	Out io.Writer
}

func NewApp(cfg *config.Config, logger port.LoggerPort) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		Clipboard: clipboard_adapter.System{},
		Out:       os.Stdout,
	}
}

// Source opens the configured listing source. The returned close function
// is never nil.
func (a *App) Source(ctx context.Context) (domain.ListingSource, func() error, error) {
	noop := func() error { return nil }

	switch a.cfg.Data.Source {
	case "file":
		return domain.NewFileSource(a.cfg.Data.Path), noop, nil
	case "http":
		client := &http.Client{Timeout: a.cfg.Data.FetchTimeout}
		return domain.NewHTTPSource(a.cfg.Data.URL, client), noop, nil
	case "postgres":
		db, err := domain.OpenPostgres(ctx, a.cfg.Data.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		a.logger.Info("db connection successful", nil)
		return domain.NewPostgresRepository(db), db.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown data source %q", a.cfg.Data.Source)
}

func (a *App) pages(ctx context.Context) (*service.PageService, func() error, error) {
	src, closeSrc, err := a.Source(ctx)
	if err != nil {
		return nil, closeSrc, err
	}
	return service.NewPageService(src, a.cfg, a.logger), closeSrc, nil
}

// Serve runs the HTTP server until ctx is done or SIGINT/SIGTERM arrives.
func (a *App) Serve(ctx context.Context) error {
	pages, closeSrc, err := a.pages(ctx)
	defer closeSrc()
	if err != nil {
		return err
	}

	srv, err := server.NewServer(a.cfg.Server, pages, a.logger)
	if err != nil {
		return err
	}

	errorsCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errorsCh <- fmt.Errorf("failed to start HTTP server: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": sig.String()})
	case runErr = <-errorsCh:
		a.logger.Error("HTTP server failed", runErr, nil)
	case <-ctx.Done():
		a.logger.Warn("Context cancelled, shutting down...", nil)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return errors.Join(runErr, fmt.Errorf("stop HTTP server: %w", err))
	}
	return runErr
}

// Render writes a static copy of the page into dir.
func (a *App) Render(ctx context.Context, dir string) error {
	pages, closeSrc, err := a.pages(ctx)
	defer closeSrc()
	if err != nil {
		return err
	}
	if err := pages.WriteStatic(ctx, dir); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "✓ Page rendered into %s\n", dir)
	return nil
}

// ExportCSV writes the current listings to a CSV file.
func (a *App) ExportCSV(ctx context.Context, path string) error {
	pages, closeSrc, err := a.pages(ctx)
	defer closeSrc()
	if err != nil {
		return err
	}
	n, err := pages.Export(ctx, domain.NewCSVRepository(path))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(a.Out, "✓ Export completed successfully: %d properties saved to %s\n", n, path)
	return nil
}

// Import loads the payload file at path and stores it in Postgres,
// replacing what was there.
func (a *App) Import(ctx context.Context, path string) error {
	if a.cfg.Data.PostgresDSN == "" {
		return fmt.Errorf("db connection string not found")
	}
	db, err := domain.OpenPostgres(ctx, a.cfg.Data.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := domain.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	pages := service.NewPageService(domain.NewFileSource(path), a.cfg, a.logger)
	n, err := pages.Export(ctx, repo)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(a.Out, "✓ Import completed successfully: %d properties saved\n", n)
	return nil
}

// Copy puts listing id on the clipboard, printing it for manual copying
// when no clipboard is available.
func (a *App) Copy(ctx context.Context, id string) error {
	pages, closeSrc, err := a.pages(ctx)
	defer closeSrc()
	if err != nil {
		return err
	}
	return pages.Copy(ctx, id, a.Clipboard, clipboard_adapter.WriterPrompter{W: a.Out})
}

// Check loads url in headless Chrome and fails unless the page behaves.
func (a *App) Check(ctx context.Context, url string) error {
	report, err := browser.NewChecker(a.cfg, a.logger).Check(ctx, url)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "%s: %d sale, %d rent, %d copy buttons, tabs toggle=%t, error notice=%t\n",
		report.URL, report.SaleCards, report.RentCards, report.CopyButtons, report.TabsToggle, report.ErrorShown)
	if !report.OK() {
		return fmt.Errorf("page check failed for %s", url)
	}
	return nil
}
