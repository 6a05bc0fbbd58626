package export

import (
	"log/slog"
	"time"
)

// LevelStats holds the run counters for one entity level. Fields are
// updated with atomics during the concurrent stages.
type LevelStats struct {
	Fetched       int64
	Valid         int64
	Invalid       int64
	Selected      int64
	FetchFailures int64
}

// Stats contains the counters of one export run, per entity level.
// For the users level, Selected counts the users kept by the even-identifier
// filter and FetchFailures is always zero (a users fetch failure aborts the
// run instead).
type Stats struct {
	Users    LevelStats
	Posts    LevelStats
	Comments LevelStats
	Rows     int64
	Duration time.Duration
}

// LogSummary emits the end-of-run counter summary.
func (s *Stats) LogSummary(logger *slog.Logger) {
	logger.Info("users summary",
		slog.Int64("fetched", s.Users.Fetched),
		slog.Int64("valid", s.Users.Valid),
		slog.Int64("invalid", s.Users.Invalid),
		slog.Int64("selected", s.Users.Selected))
	logger.Info("posts summary",
		slog.Int64("fetched", s.Posts.Fetched),
		slog.Int64("valid", s.Posts.Valid),
		slog.Int64("invalid", s.Posts.Invalid),
		slog.Int64("selected", s.Posts.Selected),
		slog.Int64("fetch_failures", s.Posts.FetchFailures))
	logger.Info("comments summary",
		slog.Int64("fetched", s.Comments.Fetched),
		slog.Int64("valid", s.Comments.Valid),
		slog.Int64("invalid", s.Comments.Invalid),
		slog.Int64("selected", s.Comments.Selected),
		slog.Int64("fetch_failures", s.Comments.FetchFailures))
	logger.Info("run summary",
		slog.Int64("rows", s.Rows),
		slog.Duration("duration", s.Duration))
}
