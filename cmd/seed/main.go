// cmd/seed/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/retailpulse/pos-insights/internal/cache"
	"github.com/retailpulse/pos-insights/internal/config"
	"github.com/retailpulse/pos-insights/internal/etl"
	"github.com/retailpulse/pos-insights/internal/repository"
	"github.com/retailpulse/pos-insights/internal/repository/store"
	"github.com/retailpulse/pos-insights/internal/storage"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Prepare and load the analytics database",
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Apply the database schema",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Path to the schema SQL file",
						Value: "./scripts/schema.sql",
					},
				},
				Action: applySchema,
			},
			{
				Name:  "import",
				Usage: "Import POS export CSVs from a local directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Directory containing export CSV files",
						Value:   "./data/incoming",
						EnvVars: []string{"SEED_IMPORT_DIR"},
					},
				},
				Action: importDir,
			},
			{
				Name:  "demo",
				Usage: "Generate deterministic demo data",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "products",
						Usage: "Number of demo products",
						Value: 40,
					},
					&cli.IntFlag{
						Name:  "weeks",
						Usage: "Weeks of sales history to generate",
						Value: 104,
					},
				},
				Action: seedDemo,
			},
			{
				Name:  "download",
				Usage: "Download export CSVs from object storage into a local directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "prefix",
						Usage: "Object key prefix to download",
						Value: "exports/",
					},
					&cli.StringFlag{
						Name:    "dir",
						Usage:   "Destination directory",
						Value:   "./data/incoming",
						EnvVars: []string{"SEED_IMPORT_DIR"},
					},
				},
				Action: downloadExports,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB() (*store.DB, error) {
	cfg := config.Load()
	db, err := store.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func applySchema(c *cli.Context) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	schema, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	if _, err := db.ExecContext(c.Context, string(schema)); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("schema applied")
	return nil
}

func importDir(c *cli.Context) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ingestor := etl.NewIngestor(repository.NewIngestRepository(db), cache.NewNoopAnalyticsCache())
	if err := ingestor.IngestDir(c.Context, c.String("dir")); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	log.Println("import completed")
	return nil
}

func downloadExports(c *cli.Context) error {
	cfg := config.Load()
	if !cfg.Storage.Enabled {
		return fmt.Errorf("object storage is not configured (set STORAGE_ENABLED)")
	}

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to connect to object storage: %w", err)
	}

	dir := c.String("dir")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create destination dir: %w", err)
	}

	objects, err := client.ListObjects(c.Context, c.String("prefix"))
	if err != nil {
		return fmt.Errorf("failed to list objects: %w", err)
	}

	for _, obj := range objects {
		dest := filepath.Join(dir, filepath.Base(obj.Key))
		if err := client.DownloadObject(c.Context, obj.Key, dest); err != nil {
			return fmt.Errorf("failed to download %s: %w", obj.Key, err)
		}
		log.Printf("downloaded %s -> %s", obj.Key, dest)
	}

	log.Printf("downloaded %d objects", len(objects))
	return nil
}

func seedDemo(c *cli.Context) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return generateDemoData(context.Background(), repository.NewIngestRepository(db), c.Int("products"), c.Int("weeks"))
}
