package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"

	"tailor-backend/internal/config"
	"tailor-backend/internal/store"
	"tailor-backend/internal/store/postgres"
)

func main() {
	keepOrg := flag.Bool("keep-org", true, "keep the organization profile")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("WARNING: This will DELETE ALL SHOP DATA!")
	fmt.Println()
	fmt.Println("This will clear stock, customers, bills, payments,")
	fmt.Println("tailor counters, the item status board and the stock ledger.")
	fmt.Println()
	fmt.Print("Type 'yes' to confirm: ")

	var confirm string
	fmt.Scanln(&confirm)

	if confirm != "yes" {
		fmt.Println("Reset cancelled.")
		return
	}

	cfg := config.Load()
	ctx := context.Background()

	pool, err := postgres.Connect(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	fmt.Println()
	fmt.Println("Resetting database...")

	err = pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		for _, coll := range store.Collections {
			if coll == store.Organization && *keepOrg {
				continue
			}
			tag, err := tx.Exec(ctx, `DELETE FROM records WHERE collection = $1`, coll)
			if err != nil {
				return fmt.Errorf("clear %s: %w", coll, err)
			}
			fmt.Printf("  - Cleared %s (%d records)\n", coll, tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Reset failed: %v\n", err)
	}

	fmt.Println()
	fmt.Println("Database reset successful!")
}
