package main

import (
	"context"
	"flag"
	"log"
	"os"

	"flowershop/internal/config"
	"flowershop/internal/seed"
	"flowershop/internal/store"
)

func main() {
	acc := seed.DefaultAccounts
	flag.StringVar(&acc.AdminEmail, "admin-email", acc.AdminEmail, "Email of the demo admin")
	flag.StringVar(&acc.AdminPassword, "admin-password", acc.AdminPassword, "Password of the demo admin")
	flag.StringVar(&acc.CustomerEmail, "customer-email", acc.CustomerEmail, "Email of the demo customer (empty to skip)")
	flag.StringVar(&acc.CustomerPassword, "customer-password", acc.CustomerPassword, "Password of the demo customer")
	flag.Parse()

	cfg := config.Load()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer st.Close()

	err = seed.Apply(ctx, seed.Stores{
		Categories: st.Categories,
		AddOns:     st.AddOns,
		Products:   st.Products,
		Users:      st.Users,
	}, acc)
	if err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Printf("seed applied admin=%s", acc.AdminEmail)
}
