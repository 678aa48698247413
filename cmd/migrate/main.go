package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/logger"
	"github.com/crm/backend/internal/infrastructure/migration"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var (
		sourceDir string
		logLevel  string
	)
	flag.StringVar(&sourceDir, "dir", "", "Directory for create/list (default: internal/infrastructure/migration/sql/<driver>)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	driver := cfg.Database.Driver
	if sourceDir == "" {
		sourceDir = filepath.Join("internal", "infrastructure", "migration", migration.SourceDir(driver))
	}

	log.Info("Migration CLI started", zap.String("command", command), zap.String("driver", driver))

	// create and list work on files only
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(sourceDir, args[1], description)
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created",
			zap.Uint("version", mf.Version),
			zap.String("up_file", mf.UpPath),
			zap.String("down_file", mf.DownPath),
		)
		return
	case "list":
		if err := list(os.DirFS(sourceDir)); err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		return
	}

	db, err := open(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	m, err := migration.New(db, driver, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	if err := execute(m, command, args[1:]); err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

func execute(m *migration.Migrator, command string, args []string) error {
	switch command {
	case "up":
		return m.Up()
	case "down":
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 1 {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			n = v
		}
		return m.Down(n)
	case "goto":
		if len(args) == 0 {
			return fmt.Errorf("target version required")
		}
		v, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.GoTo(uint(v))
	case "force":
		if len(args) == 0 {
			return fmt.Errorf("version required")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[0])
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version: %d, dirty: %t\n", version, dirty)
		return nil
	}
	return fmt.Errorf("unknown command %q", command)
}

// open connects with database/sql. MySQL needs multiStatements for migration files.
func open(cfg *config.DatabaseConfig) (*sql.DB, error) {
	var driverName, dsn string
	switch cfg.Driver {
	case "postgres", "":
		driverName, dsn = "postgres", cfg.DSN()
	case "mysql":
		driverName, dsn = "mysql", cfg.DSN()+"&multiStatements=true"
	default:
		return nil, fmt.Errorf("driver %q has no SQL migrations, the server auto-migrates it", cfg.Driver)
	}
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func list(fsys fs.FS) error {
	files, err := migration.ListMigrations(fsys)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No migrations found")
		return nil
	}
	for _, f := range files {
		fmt.Printf("%06d  %s\n", f.Version, f.Name)
	}
	return nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: migrate [flags] <command> [args]

Commands:
  up                 Apply all pending migrations
  down [n]           Roll back n migrations (default 1)
  goto <version>     Migrate up or down to version
  force <version>    Set the version without running migrations (recovers a dirty state)
  version            Print the current version
  create <name> [d]  Create a new up/down pair
  list               List migrations on disk

Flags:
`)
	flag.PrintDefaults()
}
