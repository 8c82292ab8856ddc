package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/partsbridge/backend-go/internal/importer"
	"github.com/partsbridge/backend-go/internal/repository/postgres"
	"github.com/partsbridge/backend-go/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "importcli",
		Usage: "Bulk import catalog data from CSV files",
		Commands: []*cli.Command{
			{
				Name:  "products",
				Usage: "Import products from a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "file",
						Usage:    "Path to the CSV file to import",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Import mode: overwrite updates structural duplicates, anything else skips them",
						Value: "skip",
					},
					&cli.StringFlag{
						Name:  "log-level",
						Usage: "Log level (debug, info, warn, error)",
						Value: "info",
					},
				},
				Action: runImport,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runImport(c *cli.Context) error {
	logger.SetLevel(c.String("log-level"))

	db, err := postgres.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	f, err := os.Open(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	imp := importer.New(
		postgres.NewCategoryRepository(db),
		postgres.NewProductRepository(db),
		importer.DefaultConfig(),
	)

	summary, err := imp.Run(c.Context, f, importer.ParseMode(c.String("mode")))
	if err != nil {
		return err
	}

	fmt.Printf("Parsed rows:  %d\n", summary.ParsedRows)
	fmt.Printf("Dropped rows: %d\n", summary.DroppedRows)
	fmt.Printf("Created:      %d\n", summary.CreatedCount)
	fmt.Printf("Updated:      %d\n", summary.UpdatedCount)
	if summary.Degraded {
		fmt.Println("Reconciliation ran in degraded single-threaded mode")
	}
	for _, be := range summary.BatchErrors {
		fmt.Printf("Batch error:  %s [%d:%d] %s\n", be.Op, be.Start, be.End, be.Err)
	}
	return nil
}
