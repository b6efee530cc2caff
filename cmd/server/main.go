package main

import (
    "context"
    "fmt"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/go-chi/chi/v5"

    httpadapter "inmopulse/internal/adapters/http"
    pg "inmopulse/internal/adapters/postgres"
    "inmopulse/internal/config"
    ports "inmopulse/internal/ports"
    scoresvc "inmopulse/internal/services/scoring"
    scoreworker "inmopulse/internal/workers/scorerunner"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        log.Printf("warning: %v", err)
    }
    if cfg.DatabaseURL == "" {
        log.Fatal("DATABASE_URL is required for Postgres adapters")
    }

    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    db, err := pg.Connect(ctx, cfg.DatabaseURL)
    if err != nil {
        log.Fatalf("db connect error: %v", err)
    }
    defer db.Close()

    // Wire repositories to services (ports)
    var _ ports.ContactRepository = db
    var _ ports.ReasonRepository = db
    var _ ports.EvaluationRepository = db
    var _ ports.AlertRepository = db
    var _ ports.JobRepository = db

    scoring := scoresvc.New(db, db, db, db)

    srv := httpadapter.New(scoring, db, db, scoring)
    r := chi.NewRouter()
    r.Mount("/", srv.Routes())

    // Optional background score workers
    if cfg.ScoreWorkers > 0 {
        go scoreworker.Run(ctx, db, scoring, cfg.ScoreWorkers, 500*time.Millisecond)
        log.Printf("score workers started: %d", cfg.ScoreWorkers)
    }

    errCh := make(chan error, 1)
    go func() { errCh <- http.ListenAndServe(cfg.ListenAddr, r) }()
    log.Printf("listening on %s", cfg.ListenAddr)

    sigCh := make(chan os.Signal, 1)
    signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
    select {
    case sig := <-sigCh:
        log.Printf("shutting down on %s", sig)
        cancel()
        time.Sleep(300 * time.Millisecond)
    case err := <-errCh:
        log.Fatal(fmt.Errorf("server error: %w", err))
    }
}
