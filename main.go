package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/veloforge/ridesim/api"
	"github.com/veloforge/ridesim/internal/config"
	"github.com/veloforge/ridesim/internal/monitoring"
	"github.com/veloforge/ridesim/internal/ridedb"
	"github.com/veloforge/ridesim/internal/sim"
	"github.com/veloforge/ridesim/internal/timeutil"
	"github.com/veloforge/ridesim/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	configPath  = flag.String("config", "", "Path to a tuning config JSON (built-in defaults if empty)")
	dbFile      = flag.String("db", "ride_data.db", "Path to the ride database")
	tick        = flag.Duration("tick", time.Second, "Simulation tick interval")
	power       = flag.Int("power", 200, "Initial target power in watts")
	grade       = flag.Float64("grade", 0, "Initial road grade in percent")
	randomness  = flag.Int("randomness", 30, "Stochasticity level (0-100)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("ridesim %s (%s, built %s)\n", version.Version, version.GitSHA, version.BuildTime)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	tuning := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load tuning config: %v", err)
		}
	}

	rec := monitoring.NewRecorder()
	defer rec.Close()

	params := sim.PhysicsParametersFromTuning(tuning)
	engine := sim.NewEngine(params, tuning, sim.WithReporter(rec))

	db, err := ridedb.NewDB(*dbFile)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	rideID, err := db.StartRide(time.Now(), params)
	if err != nil {
		log.Fatalf("failed to start ride: %v", err)
	}
	log.Printf("recording ride %s (engine %s)", rideID, engine.ID())

	loop := NewLoop(engine, timeutil.RealClock{}, *tick, sim.SimulationInput{
		TargetPower:  *power,
		GradePercent: *grade,
		Randomness:   *randomness,
	})

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Simulation loop goroutine: drives the engine and records samples.
	wg.Add(1)
	go func() {
		defer wg.Done()
		loop.Run(ctx, func(elapsed float64, st sim.SimulationState) {
			if err := db.RecordSample(rideID, elapsed, st); err != nil {
				log.Printf("failed to record sample: %v", err)
			}
		})
		log.Print("simulation loop terminated")
	}()

	// HTTP server goroutine
	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()
		apiMux := api.NewServer(loop, rec).ServeMux()
		mux.Handle("/api/", http.StripPrefix("/api", apiMux))

		server := &http.Server{
			Addr:    *listen,
			Handler: mux,
		}

		// Start server in a goroutine so it doesn't block
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		// Wait for context cancellation to shut down server
		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}

		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()

	summary, err := db.Summary(rideID)
	if err == nil {
		log.Printf("ride %s: %d samples, %.0fs, avg %.0f W, max %.1f m/s",
			summary.RideID, summary.SampleCount, summary.DurationSeconds,
			summary.AvgPowerWatts, summary.MaxSpeedMps)
	}
	log.Printf("Graceful shutdown complete")
}
