package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pandeptwidyaop/tool-catalog/internal/assets"
	"github.com/pandeptwidyaop/tool-catalog/internal/router"
	"github.com/pandeptwidyaop/tool-catalog/internal/services"
	"github.com/pandeptwidyaop/tool-catalog/internal/version"
)

type ServeCmd struct{}

type ExportCmd struct {
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

type ImportCmd struct {
	File      string `arg:"" help:"Catalog JSON file to import." type:"existingfile"`
	Overwrite bool   `help:"Overwrite existing tool descriptions and commands."`
}

type VersionCmd struct{}

func (c *ServeCmd) Run(ctx *Context) error {
	cfg := ctx.loadConfig()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	catalogService := services.NewCatalogService(db)
	transferService := services.NewTransferService(db)

	if cfg.Catalog.ShouldSeed() {
		applied, err := transferService.Seed(context.Background(), assets.SeedName, assets.DefaultCatalog())
		if err != nil {
			return fmt.Errorf("seed default catalog: %w", err)
		}
		if applied {
			log.Println("Default catalog seeded")
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := router.New(cfg, catalogService, transferService)

	addr := cfg.Server.Address()
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Tool Catalog %s starting on %s", version.Version, addr)
		log.Printf("Access at: http://%s%s/", addr, cfg.Server.PathPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}
	log.Println("Server stopped")
	return nil
}

func (c *ExportCmd) Run(ctx *Context) error {
	cfg := ctx.loadConfig()

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	doc, err := services.NewTransferService(db).Export(context.Background())
	if err != nil {
		return fmt.Errorf("export catalog: %w", err)
	}
	data, err := services.MarshalExport(doc)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if c.Output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	log.Printf("Exported %d tools to %s", len(doc.Tools), c.Output)
	return nil
}

func (c *ImportCmd) Run(ctx *Context) error {
	cfg := ctx.loadConfig()

	payload, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.File, err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db)

	result, err := services.NewTransferService(db).Import(context.Background(), string(payload), c.Overwrite)
	if err != nil {
		return err
	}

	fmt.Printf("Import complete: %d tools, %d commands, %d updated.\n",
		result.ToolsCreated, result.CommandsCreated, result.CommandsUpdated)
	if result.Skipped > 0 {
		fmt.Printf("%d invalid entries skipped.\n", result.Skipped)
	}
	return nil
}

func (c *VersionCmd) Run(_ *Context) error {
	fmt.Printf("Tool Catalog %s\n", version.Version)
	fmt.Printf("Build Time: %s\n", version.BuildTime)
	fmt.Printf("Git Commit: %s\n", version.GitCommit)
	return nil
}
