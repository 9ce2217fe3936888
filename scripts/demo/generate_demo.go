// Command generate_demo seeds a saferoot content database for demos and
// load experiments. It writes pages with text and image components, the
// matching upload files, a default text template, and optionally a batch
// of hostile file paths so the rejection pipeline has something to catch.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"saferoot/internal/store"
	"saferoot/internal/uploads"
)

// demoConfig defines the JSON config for generating a demo database.
type demoConfig struct {
	Name              string `json:"name"`
	Pages             int    `json:"pages"`
	ComponentsPerPage int    `json:"components_per_page"`
	HostilePaths      int    `json:"hostile_paths"`
}

func main() {
	configPath := flag.String("config", "", "path to demo config JSON")
	outPath := flag.String("out", "", "output duckdb file path")
	uploadsDir := flag.String("uploads", "", "directory to write upload files into (optional)")
	templatesDir := flag.String("templates", "", "directory to write component templates into (optional)")
	flag.Parse()
	if *configPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: generate_demo --config <path> --out <duckdb file> [--uploads <dir>] [--templates <dir>]")
		os.Exit(2)
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := os.MkdirAll(dirOf(*outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "mkdir output dir: %v\n", err)
		os.Exit(1)
	}
	if err := removeIfExists(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if err := generateDemo(ctx, *outPath, *uploadsDir, *templatesDir, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "generate demo: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (demoConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return demoConfig{}, err
	}
	var cfg demoConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return demoConfig{}, err
	}
	if cfg.Pages <= 0 {
		cfg.Pages = 10
	}
	if cfg.ComponentsPerPage <= 0 {
		cfg.ComponentsPerPage = 4
	}
	return cfg, nil
}

func generateDemo(ctx context.Context, dbPath, uploadsDir, templatesDir string, cfg demoConfig) error {
	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.EnsureSchema(db); err != nil {
		return err
	}

	if templatesDir != "" {
		if err := writeTemplates(templatesDir); err != nil {
			return err
		}
	}

	startTime := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pageStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO pages (page_id, slug, title, created_at) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer pageStmt.Close()
	componentStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO components
		   (component_id, page_id, position, component_type, template, content_file_path, content_text, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer componentStmt.Close()

	hostileLeft := cfg.HostilePaths
	componentIndex := 0
	for i := 0; i < cfg.Pages; i++ {
		pageID := deterministicID("page", i)
		slug := fmt.Sprintf("%s-page-%04d", cfg.Name, i)
		title := fmt.Sprintf("%s page %d", cfg.Name, i)
		createdAt := startTime.Add(time.Duration(i) * time.Minute)
		if _, err := pageStmt.ExecContext(ctx, pageID, slug, title, createdAt); err != nil {
			return err
		}
		for j := 0; j < cfg.ComponentsPerPage; j++ {
			componentID := deterministicID("component", componentIndex)
			componentIndex++
			var filePath, text any
			componentType := "text"
			if j%2 == 0 {
				text = fmt.Sprintf("Demo paragraph %d on page %d.", j, i)
			} else {
				componentType = "image"
				ext := uploads.FormatPNG.Extension()
				rel := fmt.Sprintf("2026/01/demo-%04d-%d.%s", i, j, ext)
				if hostileLeft > 0 {
					rel = fmt.Sprintf("../../outside/demo-%04d-%d.%s", i, j, ext)
					hostileLeft--
				} else if uploadsDir != "" {
					if err := writeUpload(uploadsDir, rel); err != nil {
						return err
					}
				}
				filePath = rel
			}
			if _, err := componentStmt.ExecContext(ctx, componentID, pageID, j+1,
				componentType, "default", filePath, text, createdAt); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// writeUpload creates a small placeholder file with a PNG signature so
// format detection treats it as an image.
func writeUpload(dir, rel string) error {
	full := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	data := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("demo")...)
	return os.WriteFile(full, data, 0o644)
}

// writeTemplates creates the default templates used by the demo pages.
func writeTemplates(dir string) error {
	templates := map[string]string{
		"components/text/default.html":  "<p>{{.Text}}</p>\n",
		"components/image/default.html": "<img src=\"{{.FileURL}}\" alt=\"\">\n",
	}
	for rel, body := range templates {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}
