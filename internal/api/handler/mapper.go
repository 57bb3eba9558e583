package handler

import (
	"time"

	"github.com/99minutos/exercise-tracker/internal/core/domain"
	"github.com/99minutos/exercise-tracker/internal/core/ports"
)

// --- Service result → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username}
}

func toUserListResponse(users []*domain.User) []userResponse {
	out := make([]userResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

func toExerciseResponse(r *ports.ExerciseResult) exerciseResponse {
	return exerciseResponse{
		ID:          r.ID,
		Username:    r.Username,
		Date:        domain.FormatDate(r.Date),
		Duration:    r.Duration,
		Description: r.Description,
	}
}

func toLogResponse(l *ports.ExerciseLog) logResponse {
	entries := make([]logEntryResponse, len(l.Log))
	for i, e := range l.Log {
		entries[i] = logEntryResponse{
			Description: e.Description,
			Duration:    e.Duration,
			Date:        domain.FormatDate(e.Date),
		}
	}
	return logResponse{
		ID:       l.ID,
		Username: l.Username,
		From:     optionalDate(l.From),
		To:       optionalDate(l.To),
		Count:    len(entries),
		Log:      entries,
	}
}

func optionalDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return domain.FormatDate(t)
}
