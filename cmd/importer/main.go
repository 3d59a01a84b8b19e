package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"flowershop/internal/config"
	"flowershop/internal/importer"
	"flowershop/internal/store"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to a products, categories or add-ons CSV file")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	ctx := context.Background()

	st, err := store.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, st.Products, st.Categories, st.AddOns)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d records from %s in %s\n", count, filePath, time.Since(start).Truncate(time.Millisecond))
}
