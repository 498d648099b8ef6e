package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"multibuy-autoadd/internal/config"
	"multibuy-autoadd/internal/db"
	"multibuy-autoadd/internal/importer"
	skurepo "multibuy-autoadd/internal/repository/sku"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to SKU catalog CSV")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	logger := log.New(os.Stderr, "[importer] ", log.LstdFlags|log.LUTC)
	imp := importer.NewCSVImporter(f, skurepo.NewPostgres(pool, logger))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d SKUs in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
