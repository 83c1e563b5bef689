package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/cartera-b2b/internal/infrastructure/postgres"
	"github.com/jhoicas/cartera-b2b/pkg/config"
	"github.com/jhoicas/cartera-b2b/pkg/logger"
)

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "info", "nivel de log (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: logLevel}).WithComponent("migrate")
	url := cfg.DB.ConnectionString()

	switch command {
	case "up":
		if err := postgres.MigrateUp(url); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
	case "down":
		if err := postgres.MigrateDown(url); err != nil {
			log.Fatal().Err(err).Msg("revertir migraciones")
		}
	case "version":
	default:
		printUsage()
		os.Exit(1)
	}

	version, dirty, err := postgres.MigrationVersion(url)
	if err != nil {
		log.Fatal().Err(err).Msg("consultar versión")
	}
	log.Info().Str("command", command).Uint("version", version).Bool("dirty", dirty).Msg("migraciones")
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "uso: migrate [-log-level info] <up|down|version>")
}
