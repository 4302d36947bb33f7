package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/KpG782/Pacebeats-admin-sub001/internal/auth"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/config"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/db"
)

// seed-admin provisions a dashboard operator account. Admin creation is
// deliberately not an HTTP endpoint; it runs from a shell with store
// credentials in hand.
func main() {
	email := flag.String("email", "", "operator email (required)")
	password := flag.String("password", "", "operator password (required)")
	fullName := flag.String("name", "", "operator display name")
	flag.Parse()

	if *email == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	pg, err := db.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pg.Close()

	svc := auth.NewService(cfg.JWTSecret, pg)
	admin, err := svc.CreateAdmin(context.Background(), *email, *password, *fullName)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("admin %s created (%s)", admin.ID, admin.Email)
}
