package main

import (
	"fmt"
	"log"

	"github.com/hugshop/internal/config"
	"github.com/hugshop/internal/db"
)

func main() {
	cfg := config.Load()

	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	if err := db.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("failed to ensure admin user: %v", err)
	}

	if err := db.SeedDemoData(); err != nil {
		log.Fatalf("failed to seed demo data: %v", err)
	}

	fmt.Println("seeded demo pages and products")
}
