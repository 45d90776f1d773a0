// Package main is the entry point for the Tool Catalog server.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alecthomas/kong"

	"github.com/pandeptwidyaop/tool-catalog/internal/config"
	"github.com/pandeptwidyaop/tool-catalog/internal/database"
)

type CLI struct {
	Config  string     `help:"Path to config file." default:"config.yaml" type:"path"`
	Serve   ServeCmd   `cmd:"" default:"1" help:"Run the web server (default)."`
	Export  ExportCmd  `cmd:"" help:"Write the catalog as JSON."`
	Import  ImportCmd  `cmd:"" help:"Load a catalog JSON document."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Context is shared by every subcommand.
type Context struct {
	ConfigPath string
}

// loadConfig falls back to defaults when the file cannot be read, so the
// server can start without any configuration.
func (ctx *Context) loadConfig() *config.Config {
	cfg, err := config.Load(ctx.ConfigPath)
	if err != nil {
		log.Printf("Warning: Could not load config from %s: %v", ctx.ConfigPath, err)
		log.Println("Using default configuration...")
		return config.Default()
	}
	return cfg
}

// openDatabase opens and migrates the configured database.
func openDatabase(cfg *config.Config) (*database.DB, error) {
	db, err := database.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

func closeDatabase(db *database.DB) {
	if err := db.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func main() {
	var cli CLI
	parser := kong.Must(&cli,
		kong.Name("tool-catalog"),
		kong.Description("Catalog and compose command-line tool templates."),
		kong.UsageOnError(),
	)
	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := ctx.Run(&Context{ConfigPath: cli.Config}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
