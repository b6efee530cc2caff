package ports

import "context"

type ScoreJob struct {
    ID           string
    EvaluationID string
}

// JobRepository supports claiming and updating score jobs.
type JobRepository interface {
    ClaimNext(ctx context.Context) (job ScoreJob, found bool, err error)
    MarkRunning(ctx context.Context, jobID string) error
    MarkCompleted(ctx context.Context, jobID string) error
    MarkFailed(ctx context.Context, jobID string, reason string) error
    StartJobForEvaluation(ctx context.Context, evaluationID string) (jobID string, err error)
}
