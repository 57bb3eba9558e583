package ports

import (
	"context"
	"time"
)

// AddExerciseInput is the DTO passed from the transport layer to ExerciseService.
// Fields are unvalidated; the service checks them once the user is known.
type AddExerciseInput struct {
	UserID      string
	Description string
	Duration    string // minutes, integer or decimal text
	Date        string // optional; today when empty
}

// ExerciseResult is returned after an exercise is logged. ID is the owner's id.
type ExerciseResult struct {
	ID          string
	Username    string
	Description string
	Duration    int
	Date        time.Time
}

// LogQueryInput carries the raw query parameters of a log request.
type LogQueryInput struct {
	UserID string
	From   string
	To     string
	Limit  string // optional; empty or <= 0 means unlimited
}

// LogEntry is a single item in an exercise log.
type LogEntry struct {
	Description string
	Duration    int
	Date        time.Time
}

// ExerciseLog is the result of QueryLogs. Count always equals len(Log).
type ExerciseLog struct {
	ID       string
	Username string
	From     time.Time
	To       time.Time
	Count    int
	Log      []LogEntry
}

// ExerciseService defines use-case operations for the exercise log.
type ExerciseService interface {
	AddExercise(ctx context.Context, input AddExerciseInput) (*ExerciseResult, error)
	QueryLogs(ctx context.Context, input LogQueryInput) (*ExerciseLog, error)
}
