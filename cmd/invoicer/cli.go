package main

import (
	"fmt"
	"time"

	"github.com/diewo77/invoicer/internal/config"
	"github.com/diewo77/invoicer/internal/db"
	"github.com/diewo77/invoicer/internal/logger"
	"github.com/diewo77/invoicer/internal/render"
	"github.com/diewo77/invoicer/internal/services"
	"github.com/diewo77/invoicer/internal/store"
	"github.com/diewo77/invoicer/internal/viewer"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// cli holds what the commands share. The database is opened lazily by the
// root command's pre-run hook so `--help` never touches disk.
type cli struct {
	cfg    *config.Config
	lang   string
	now    func() time.Time
	viewer services.Viewer

	conn *gorm.DB
	svc  *services.InvoiceService
}

func newCLI(cfg *config.Config) *cli {
	return &cli{
		cfg:    cfg,
		lang:   cfg.App.Lang,
		now:    time.Now,
		viewer: viewer.System{},
	}
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:   "invoicer",
		Short: "Create, store and render simple invoices",
		Long: `invoicer builds invoices from a client, a date, a tax rate and line items,
renders each one to a single-page PDF and keeps a history in a local database.

Configuration comes from the environment (or a .env file): DB_DRIVER, DB_PATH,
INVOICE_DIR, APP_LANG, LOG_LEVEL and friends.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" {
				return nil
			}
			return c.open()
		},
	}
	root.PersistentFlags().StringVar(&c.lang, "lang", c.lang, "message language (en, fr)")

	root.AddCommand(
		c.initCmd(),
		c.generateCmd(),
		c.listCmd(),
		c.showCmd(),
		c.viewCmd(),
		c.deleteCmd(),
		c.exportCmd(),
		c.serveCmd(),
	)
	return root
}

// open connects to the database and builds the invoice service.
func (c *cli) open() error {
	if c.svc != nil {
		return nil
	}
	conn, err := db.ConnectAndMigrate(c.cfg.Database)
	if err != nil {
		return err
	}
	c.conn = conn

	renderer := render.NewPDFRenderer(
		render.WithCompression(c.cfg.Storage.CompressPDF),
		render.WithCreator("invoicer "+version),
	)
	c.svc = services.NewInvoiceService(
		store.New(conn),
		renderer,
		c.cfg.Storage.InvoiceDir,
		services.WithClock(c.now),
		services.WithViewer(c.viewer),
		services.WithLogger(logger.WithComponent("invoices")),
	)
	return c.svc.EnsureOutputDir()
}

// execute runs root and closes the database afterwards, whether or not the
// command failed.
func (c *cli) execute(root *cobra.Command) error {
	err := root.Execute()
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}

func (c *cli) close() error {
	if c.conn == nil {
		return nil
	}
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	c.conn, c.svc = nil, nil
	return sqlDB.Close()
}

func (c *cli) printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
