package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	addr := flag.String("addr", "", "HTTP listen address (overrides config)")
	dataDir := flag.String("data", "", "Map data directory (overrides config)")
	flag.Parse()

	log.Println("========================================")
	log.Println("🚀 Indoor Navigator Server")
	log.Println("========================================")

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	floors, err := ListFloors(cfg.DataDir)
	if err != nil {
		log.Fatalf("❌ Failed to list maps: %v", err)
	}
	log.Printf("Data directory: %s (%d floors)\n", cfg.DataDir, len(floors))
	for _, floor := range floors {
		log.Printf("   %s (scale %.3f m/unit)\n", floor, cfg.ScaleFor(floor))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := NewMapStore(cfg.DataDir)
	if cfg.Watch.Enabled {
		go func() {
			if err := store.Watch(ctx, cfg.Watch.Debounce); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("⚠️  Map watcher stopped: %v\n", err)
			}
		}()
	}

	hs := &http.Server{
		Addr:         cfg.Addr,
		Handler:      newServer(cfg, store),
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
	}

	log.Printf("Server starting on %s\n", cfg.Addr)
	log.Println("")
	log.Println("Endpoints:")
	log.Println("  POST /route         - Plan a route and get turn-by-turn directions")
	log.Println("  GET  /navigate      - Websocket stream of route requests and responses")
	log.Println("  GET  /graphLines    - Waypoint visibility graph for visualization")
	log.Println("  GET  /destinations  - Destination names of a floor")
	log.Println("  GET  /health        - Check server status")
	log.Println("========================================")

	errc := make(chan error, 1)
	go func() {
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		log.Fatalf("Failed to serve: %v", err)
	case <-ctx.Done():
		log.Println("Terminating")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
}
