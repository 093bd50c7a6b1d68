package main

import (
	"errors"
	"flag"
	"fmt"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/hsh-clinic/clinic-backend/internal/config"
	"github.com/hsh-clinic/clinic-backend/internal/logger"
	"github.com/rs/zerolog"
)

func main() {
	var migrationDir string
	flag.StringVar(&migrationDir, "path", "migrations", "Path to migration files")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is not set")
	}

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		return
	}

	m, err := migrate.New("file://"+migrationDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("path", migrationDir).Msg("Migration failed to initialize")
	}
	defer m.Close()
	m.Log = migrateLogger{log}

	switch args[0] {
	case "up":
		check(log, "up", m.Up())
	case "down":
		check(log, "down", m.Down())
	case "steps":
		n := intArg(log, args, "steps")
		check(log, "steps", m.Steps(n))
	case "force":
		v := intArg(log, args, "force")
		if err := m.Force(v); err != nil {
			log.Fatal().Err(err).Msg("Force failed")
		}
	case "version":
	default:
		printUsage()
		return
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info().Msg("No migrations applied")
	case err != nil:
		log.Fatal().Err(err).Msg("Version failed")
	default:
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema version")
	}
}

func check(log zerolog.Logger, cmd string, err error) {
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatal().Err(err).Str("command", cmd).Msg("Migration failed")
	}
}

func intArg(log zerolog.Logger, args []string, cmd string) int {
	if len(args) < 2 {
		log.Fatal().Str("command", cmd).Msg("Missing numeric argument")
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		log.Fatal().Err(err).Str("command", cmd).Msg("Invalid numeric argument")
	}
	return v
}

// migrateLogger routes golang-migrate's progress output through zerolog.
type migrateLogger struct {
	log zerolog.Logger
}

func (l migrateLogger) Printf(format string, v ...any) {
	l.log.Info().Msg(fmt.Sprintf(format, v...))
}

func (l migrateLogger) Verbose() bool { return false }

func printUsage() {
	fmt.Println("Usage: migrate [flags] <command>")
	fmt.Println("Commands: up, down, steps <n>, version, force <version>")
	fmt.Println("Flags:")
	flag.PrintDefaults()
}
