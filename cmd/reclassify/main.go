package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/config"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/domain"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/persistence/memory"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/persistence/postgres"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/publish"
	"github.com/Steven-Carter-Data/gran-fondo-bc/internal/reclassify"
)

type store interface {
	reclassify.Source
	domain.SportTypeUpdater
}

func main() {
	dryRun := flag.Bool("dry-run", false, "print the plan without updating anything")
	assumeYes := flag.Bool("yes", false, "apply without asking for confirmation")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore := openStore(ctx, cfg)
	defer closeStore()

	opts := []reclassify.Option{reclassify.WithLogger(log.New(os.Stdout, "[reclassify] ", log.LstdFlags))}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.ReclassifyTopic)
		defer publisher.Close()
		opts = append(opts, reclassify.WithPublisher(publisher))
	}
	r := reclassify.New(st, st, opts...)

	plan, err := r.Plan(ctx)
	if err != nil {
		log.Fatalf("failed to plan reclassification: %v", err)
	}
	fmt.Printf("Found %d total activities\n\n", plan.Total)
	printDistribution("Current sport_type distribution", plan.Distribution)

	if plan.Peloton == 0 {
		fmt.Println("No Peloton activities found to analyze")
		return
	}
	fmt.Printf("Found %d activities currently classified as 'Peloton'\n", plan.Peloton)
	fmt.Printf("  %d have elevation data (should be 'Bike')\n", len(plan.Candidates))
	fmt.Printf("  %d have no elevation (correctly 'Peloton')\n", plan.WithoutElevation())
	if len(plan.Candidates) == 0 {
		fmt.Println("No activities need to be reclassified")
		return
	}

	fmt.Println("\nSample activities that will be changed from 'Peloton' to 'Bike':")
	for _, s := range plan.Samples {
		fmt.Printf("  %s - %s (%.0fft elevation)\n", s.StartDate.Format(time.RFC3339), s.Name, s.ElevationFeet)
	}

	if *dryRun {
		fmt.Println("\nDry run, nothing updated")
		return
	}
	if !*assumeYes && !confirm(fmt.Sprintf("\nUpdate %d activities from 'Peloton' to 'Bike'? (y/N): ", len(plan.Candidates))) {
		fmt.Println("Update cancelled")
		return
	}

	res := r.Apply(ctx, plan)
	fmt.Printf("\nUpdate complete\n  updated: %d\n  failed:  %d\n\n", res.Updated, res.Failed)

	after, err := r.Plan(ctx)
	if err != nil {
		log.Fatalf("failed to verify updates: %v", err)
	}
	printDistribution("Updated sport_type distribution", after.Distribution)

	if err := res.Err(); err != nil {
		log.Printf("some updates failed: %v", err)
	}
}

func printDistribution(title string, d reclassify.Distribution) {
	fmt.Println(title + ":")
	for _, c := range d {
		fmt.Printf("  %-16s %d\n", c.SportType, c.Count)
	}
	fmt.Println()
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(line), "y")
}

func openStore(ctx context.Context, cfg config.Config) (store, func()) {
	if cfg.StoreDriver == config.DriverMemory {
		if cfg.FixturePath == "" {
			log.Fatalf("memory store requires FIXTURE_PATH")
		}
		s, err := memory.LoadFixtureFile(cfg.FixturePath)
		if err != nil {
			log.Fatalf("failed to load fixture: %v", err)
		}
		return s, func() {}
	}

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	return postgres.NewRepository(pool), pool.Close
}
