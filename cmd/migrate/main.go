package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/voxbill/voxbill/internal/config"
	"github.com/voxbill/voxbill/internal/logger"
)

func main() {
	dir := flag.String("dir", "migrations", "Directory containing .sql migration files")
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	files, err := filepath.Glob(filepath.Join(*dir, "*.sql"))
	if err != nil {
		logger.Fatalw("Failed to list migration files", "error", err, "dir", *dir)
	}
	if len(files) == 0 {
		logger.Fatalw("No migration files found", "dir", *dir)
	}
	sort.Strings(files)

	if *dryRun {
		for _, f := range files {
			contents, err := os.ReadFile(f)
			if err != nil {
				logger.Fatalw("Failed to read migration", "error", err, "file", f)
			}
			fmt.Printf("-- %s\n%s\n", f, contents)
		}
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := sqlx.Connect("postgres", cfg.Postgres.GetDSN())
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	for _, f := range files {
		contents, err := os.ReadFile(f)
		if err != nil {
			logger.Fatalw("Failed to read migration", "error", err, "file", f)
		}

		logger.Infow("Applying migration", "file", f)
		if _, err := db.Exec(string(contents)); err != nil {
			logger.Fatalw("Migration failed", "error", err, "file", f)
		}
	}

	logger.Info("Migration completed successfully")
}
