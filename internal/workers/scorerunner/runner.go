package scorerunner

import (
    "context"
    "log"
    "time"

    "inmopulse/internal/ports"
)

// Processor performs the scoring work for a job's evaluation id.
type Processor interface {
    Process(ctx context.Context, evaluationID string) error
}

// Run starts worker goroutines that claim score jobs and process them.
func Run(ctx context.Context, repo ports.JobRepository, processor Processor, concurrency int, pollInterval time.Duration) {
    if concurrency < 1 { return }
    jobsCh := make(chan ports.ScoreJob, concurrency)

    // dispatcher loop
    go func() {
        ticker := time.NewTicker(pollInterval)
        defer ticker.Stop()
        for {
            select {
            case <-ctx.Done():
                close(jobsCh)
                return
            case <-ticker.C:
                for {
                    job, found, err := repo.ClaimNext(ctx)
                    if err != nil {
                        log.Printf("job claim error: %v", err)
                        break
                    }
                    if !found { break }
                    jobsCh <- job
                }
            }
        }
    }()

    // workers
    for i := 0; i < concurrency; i++ {
        go func(idx int) {
            for job := range jobsCh {
                if err := processor.Process(ctx, job.EvaluationID); err != nil {
                    _ = repo.MarkFailed(ctx, job.ID, err.Error())
                    log.Printf("worker %d: job %s failed: %v", idx, job.ID, err)
                    continue
                }
                if err := repo.MarkCompleted(ctx, job.ID); err != nil {
                    log.Printf("worker %d: complete err: %v", idx, err)
                }
            }
        }(i)
    }
}

// ProcessInline starts and processes a specific evaluation synchronously
// using the same processor logic as the background workers. It marks the job
// as running, calls processor.Process, and completes or fails.
func ProcessInline(ctx context.Context, repo ports.JobRepository, processor Processor, evaluationID string) error {
    jobID, err := repo.StartJobForEvaluation(ctx, evaluationID)
    if err != nil { return err }
    if err := processor.Process(ctx, evaluationID); err != nil {
        _ = repo.MarkFailed(ctx, jobID, err.Error())
        return err
    }
    return repo.MarkCompleted(ctx, jobID)
}
