package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KpG782/Pacebeats-admin-sub001/internal/config"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/db"
	"github.com/KpG782/Pacebeats-admin-sub001/internal/simulator"
)

// simulate-runner emulates one live mobile client. It writes straight to the
// store the way the app does, bypassing the dashboard API entirely, so the
// active-runners screen has something to show during demos.
func main() {
	userID := flag.String("user", "", "user id owning the simulated session (required)")
	tick := flag.Duration("tick", 3*time.Second, "interval between telemetry writes")
	maxDuration := flag.Duration("max", 5*time.Minute, "wall-clock ceiling before the run auto-completes")
	flag.Parse()

	if *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()

	pg, err := db.ConnectPostgres(cfg)
	if err != nil {
		log.Fatalf("postgres connection failed: %v", err)
	}
	defer pg.Close()

	rdb := db.ConnectRedis(cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	sim := simulator.New(pg, rdb, simulator.Config{
		UserID:       *userID,
		TickInterval: *tick,
		MaxDuration:  *maxDuration,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := sim.Start(ctx); err != nil {
		log.Fatalf("start session: %v", err)
	}
	log.Printf("simulating session %s for user %s (tick %s, max %s)", sim.SessionID(), *userID, *tick, *maxDuration)

	if err := sim.Run(ctx); err != nil {
		log.Fatalf("simulator stopped with error: %v", err)
	}
	log.Printf("session %s completed", sim.SessionID())
}
