// Command listings serves and renders the property listings page.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"listings-web/config"
	logger_adapter "listings-web/internal/adapters/logger"
	"listings-web/internal/application"
	"listings-web/internal/port"
)

var (
	envFile string
	devMode bool

	outDir   string
	csvPath  string
	fromPath string

	// newApp is swapped in tests.
	newApp = defaultApp
)

var rootCmd = &cobra.Command{
	Use:           "listings",
	Short:         "Serve and render the property listings page",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the page, properties.json and assets over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *application.App) error {
			return app.Serve(ctx)
		})
	},
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write a static copy of the page with its assets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *application.App) error {
			return app.Render(ctx, outDir)
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current listings to CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *application.App) error {
			return app.ExportCSV(ctx, csvPath)
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a properties.json file into Postgres",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *application.App) error {
			return app.Import(ctx, fromPath)
		})
	},
}

var copyCmd = &cobra.Command{
	Use:   "copy [id]",
	Short: "Copy a listing id to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *application.App) error {
			return app.Copy(ctx, args[0])
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check [url]",
	Short: "Load a served page in headless Chrome and verify it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, app *application.App) error {
			return app.Check(ctx, args[0])
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "use development defaults")

	renderCmd.Flags().StringVarP(&outDir, "out", "o", "dist", "output directory")
	exportCmd.Flags().StringVar(&csvPath, "csv", "listings.csv", "CSV file to write")
	importCmd.Flags().StringVar(&fromPath, "from", "properties.json", "payload file to import")

	rootCmd.AddCommand(serveCmd, renderCmd, exportCmd, importCmd, copyCmd, checkCmd)
}

func defaultApp() (*application.App, func() error, error) {
	if devMode {
		if err := os.Setenv("LISTINGS_DEV", "true"); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger, closeLogger, err := logger_adapter.Setup(cfg.Log, cfg.FluentBit)
	if err != nil {
		return nil, nil, fmt.Errorf("set up logger: %w", err)
	}
	logger.Debug("configuration loaded", port.Fields{"data_source": cfg.Data.Source, "addr": cfg.Server.Addr})
	return application.NewApp(cfg, logger), closeLogger, nil
}

func withApp(cmd *cobra.Command, run func(ctx context.Context, app *application.App) error) error {
	app, closeApp, err := newApp()
	if err != nil {
		return err
	}
	defer closeApp()
	app.Out = cmd.OutOrStdout()
	return run(cmd.Context(), app)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
