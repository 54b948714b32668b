package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/n14-py/tusinitusineli/internal/config"
	"github.com/n14-py/tusinitusineli/internal/db"

	"github.com/jmoiron/sqlx"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the .sql migration files")
	flag.Parse()

	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	applied, err := apply(database, *dir)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if applied == 0 {
		fmt.Println("marketplace schema already up to date")
		return
	}
	fmt.Printf("applied %d migration(s)\n", applied)
}

// apply runs every pending file in lexical order. Each filename is recorded in
// schema_migrations once its statements succeed, so reruns are no-ops.
func apply(database *sqlx.DB, dir string) (int, error) {
	if _, err := database.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (filename text primary key, applied_at timestamptz default now())`); err != nil {
		return 0, fmt.Errorf("ensure schema_migrations: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return 0, err
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		filename := filepath.Base(file)
		var done bool
		if err := database.Get(&done, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE filename = $1)`, filename); err != nil {
			return applied, fmt.Errorf("read migration state: %w", err)
		}
		if done {
			continue
		}
		if err := runFile(database, file); err != nil {
			return applied, fmt.Errorf("apply %s: %w", filename, err)
		}
		if _, err := database.Exec(`INSERT INTO schema_migrations (filename) VALUES ($1)`, filename); err != nil {
			return applied, fmt.Errorf("record %s: %w", filename, err)
		}
		fmt.Printf("applied %s\n", filename)
		applied++
	}
	return applied, nil
}

// runFile executes the up section of one file, statement by statement. The
// down section below the "-- +migrate Down" marker is kept for operators and
// never executed here.
func runFile(database *sqlx.DB, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	up, _, _ := strings.Cut(string(content), "-- +migrate Down")
	for _, stmt := range splitStatements(up) {
		if _, err := database.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func splitStatements(sqlText string) []string {
	var statements []string
	var current strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(sqlText))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		current.WriteString(line)
		current.WriteRune('\n')
		if strings.Contains(line, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}
