// Package export implements the fetch-validate-select pipeline: it drives
// the three-level fetch (users, their posts, each post's comments) against
// the data source client, validates and normalizes the returned records,
// selects a bounded top-N subset at each level, and flattens the surviving
// tree into output rows.
package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"community-export/internal/domain/entity"
	"community-export/internal/observability/metrics"
	"community-export/internal/observability/tracing"
)

// ErrUsersFetch marks the failure of the single top-level users fetch, which
// is fatal to the whole run.
var ErrUsersFetch = errors.New("users fetch failed")

// Client is the data source client consumed by the orchestrator.
type Client interface {
	Get(ctx context.Context, path string, params url.Values) ([]entity.RawRecord, error)
}

// Config holds the orchestrator settings.
type Config struct {
	// MaxConcurrency bounds simultaneously in-flight fetches across the
	// posts and comments stages combined.
	MaxConcurrency int

	// PostLimit is the per-user bound of the selected post set.
	PostLimit int

	// CommentLimit is the per-post bound of the selected comment set.
	CommentLimit int
}

// DefaultConfig returns the production orchestrator settings.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
		PostLimit:      5,
		CommentLimit:   3,
	}
}

// PostBranch is one selected post together with its selected comments.
type PostBranch struct {
	Post     entity.Post
	Comments []entity.Comment
}

// UserBranch is one surviving user together with its selected posts.
type UserBranch struct {
	User  entity.User
	Posts []PostBranch
}

// Result is the outcome of one export run: the surviving fetch tree, the
// flat row set in tree order, and the run counters.
type Result struct {
	Tree  []UserBranch
	Rows  []entity.Row
	Stats Stats
}

// Service orchestrates one export run. The concurrency limiter and the
// counters accumulator are owned by the service; nothing else mutates them.
type Service struct {
	client       Client
	sem          *semaphore.Weighted
	postLimit    int
	commentLimit int
	logger       *slog.Logger
}

// NewService creates an orchestrator with the given client and settings.
func NewService(client Client, cfg Config, logger *slog.Logger) *Service {
	if cfg.MaxConcurrency < 1 {
		cfg.MaxConcurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		client:       client,
		sem:          semaphore.NewWeighted(int64(cfg.MaxConcurrency)),
		postLimit:    cfg.PostLimit,
		commentLimit: cfg.CommentLimit,
		logger:       logger,
	}
}

// Run executes the three stages of one export run. Stages are strictly
// sequential; fetches within the posts and comments stages fan out
// concurrently under the shared limiter. A failure of the users fetch aborts
// the run with ErrUsersFetch; posts and comments fetch failures are isolated
// to their branch and only reflected in the counters.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	ctx, span := tracing.GetTracer().Start(ctx, "export.run")
	defer span.End()

	stats := &Stats{}

	users, err := s.fetchUsers(ctx, stats)
	if err != nil {
		return nil, err
	}

	selectedPosts, postsFailed := s.fetchPosts(ctx, users, stats)
	tree := s.fetchComments(ctx, users, selectedPosts, postsFailed, stats)

	rows := buildRows(tree)
	stats.Rows = int64(len(rows))
	stats.Duration = time.Since(start)

	span.SetAttributes(
		attribute.Int("export.users", len(tree)),
		attribute.Int("export.rows", len(rows)),
	)
	stats.LogSummary(s.logger)

	return &Result{Tree: tree, Rows: rows, Stats: *stats}, nil
}

// fetchUsers runs stage 1: the single users fetch, validation, and the
// even-identifier filter.
func (s *Service) fetchUsers(ctx context.Context, stats *Stats) ([]entity.User, error) {
	ctx, span := tracing.GetTracer().Start(ctx, "export.users")
	defer span.End()

	raws, err := s.client.Get(ctx, "/users", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUsersFetch, err)
	}

	stats.Users.Fetched = int64(len(raws))
	metrics.RecordRecordsFetched(metrics.LevelUsers, len(raws))

	valid := collectValid(s.logger, raws, metrics.LevelUsers, &stats.Users, ValidateUser)

	even := make([]entity.User, 0, len(valid))
	for _, u := range valid {
		if u.ID%2 == 0 {
			even = append(even, u)
		}
	}
	stats.Users.Selected = int64(len(even))
	metrics.RecordSelected(metrics.LevelUsers, len(even))

	s.logger.Info("users stage completed",
		slog.Int("fetched", len(raws)),
		slog.Int("valid", len(valid)),
		slog.Int("even", len(even)))

	return even, nil
}

// fetchPosts runs stage 2: one posts fetch per surviving user, fanned out
// under the shared limiter. It returns the selected post set per user, in
// users order, plus a parallel slice marking failed branches.
func (s *Service) fetchPosts(ctx context.Context, users []entity.User, stats *Stats) ([][]entity.Post, []bool) {
	ctx, span := tracing.GetTracer().Start(ctx, "export.posts")
	defer span.End()

	selected := make([][]entity.Post, len(users))
	failed := make([]bool, len(users))

	var eg errgroup.Group
	for i, user := range users {
		i, user := i, user
		eg.Go(func() error {
			raws, err := s.fetchLimited(ctx, fmt.Sprintf("/users/%d/posts", user.ID), nil)
			if err != nil {
				failed[i] = true
				atomic.AddInt64(&stats.Posts.FetchFailures, 1)
				metrics.RecordFetchFailure(metrics.LevelPosts)
				s.logger.Error("posts fetch failed",
					slog.Int64("user_id", user.ID),
					slog.Any("error", err))
				return nil
			}

			atomic.AddInt64(&stats.Posts.Fetched, int64(len(raws)))
			metrics.RecordRecordsFetched(metrics.LevelPosts, len(raws))

			valid := collectValid(s.logger, raws, metrics.LevelPosts, &stats.Posts, ValidatePost)
			top := TopByID(valid, s.postLimit, PostID)

			atomic.AddInt64(&stats.Posts.Selected, int64(len(top)))
			metrics.RecordSelected(metrics.LevelPosts, len(top))

			selected[i] = top
			return nil
		})
	}
	_ = eg.Wait()

	return selected, failed
}

// commentTask identifies one comments fetch by its position in the result
// tree, so results are re-associated by request identity rather than
// completion order.
type commentTask struct {
	userIdx int
	postIdx int
	post    entity.Post
}

// fetchComments runs stage 3: one comments fetch per selected post across
// all surviving users, under the same limiter, then assembles the final
// tree. Users whose posts fetch failed are absent from the tree; posts
// whose comments fetch failed are absent from their user's branch.
func (s *Service) fetchComments(
	ctx context.Context,
	users []entity.User,
	selectedPosts [][]entity.Post,
	postsFailed []bool,
	stats *Stats,
) []UserBranch {
	ctx, span := tracing.GetTracer().Start(ctx, "export.comments")
	defer span.End()

	var tasks []commentTask
	for ui := range users {
		for pi, post := range selectedPosts[ui] {
			tasks = append(tasks, commentTask{userIdx: ui, postIdx: pi, post: post})
		}
	}

	comments := make([][]entity.Comment, len(tasks))
	failed := make([]bool, len(tasks))

	var eg errgroup.Group
	for ti, task := range tasks {
		ti, task := ti, task
		eg.Go(func() error {
			raws, err := s.fetchLimited(ctx, fmt.Sprintf("/posts/%d/comments", task.post.ID), nil)
			if err != nil {
				failed[ti] = true
				atomic.AddInt64(&stats.Comments.FetchFailures, 1)
				metrics.RecordFetchFailure(metrics.LevelComments)
				s.logger.Error("comments fetch failed",
					slog.Int64("post_id", task.post.ID),
					slog.Any("error", err))
				return nil
			}

			atomic.AddInt64(&stats.Comments.Fetched, int64(len(raws)))
			metrics.RecordRecordsFetched(metrics.LevelComments, len(raws))

			valid := collectValid(s.logger, raws, metrics.LevelComments, &stats.Comments, ValidateComment)
			top := TopByID(valid, s.commentLimit, CommentID)

			atomic.AddInt64(&stats.Comments.Selected, int64(len(top)))
			metrics.RecordSelected(metrics.LevelComments, len(top))

			comments[ti] = top
			return nil
		})
	}
	_ = eg.Wait()

	// Assemble in input order: users fetch order, then per-user selected
	// post order, then per-post selected comment order.
	commentsByPos := make(map[[2]int][]entity.Comment, len(tasks))
	failedByPos := make(map[[2]int]bool, len(tasks))
	for ti, task := range tasks {
		pos := [2]int{task.userIdx, task.postIdx}
		commentsByPos[pos] = comments[ti]
		failedByPos[pos] = failed[ti]
	}

	tree := make([]UserBranch, 0, len(users))
	for ui, user := range users {
		if postsFailed[ui] {
			continue
		}
		branch := UserBranch{User: user, Posts: make([]PostBranch, 0, len(selectedPosts[ui]))}
		for pi, post := range selectedPosts[ui] {
			pos := [2]int{ui, pi}
			if failedByPos[pos] {
				continue
			}
			branch.Posts = append(branch.Posts, PostBranch{Post: post, Comments: commentsByPos[pos]})
		}
		tree = append(tree, branch)
	}
	return tree
}

// fetchLimited performs one client call under the shared concurrency
// limiter. The slot is held only for the duration of the call and released
// unconditionally.
func (s *Service) fetchLimited(ctx context.Context, path string, params url.Values) ([]entity.RawRecord, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("acquire fetch slot: %w", err)
	}
	defer s.sem.Release(1)
	return s.client.Get(ctx, path, params)
}

// collectValid validates all raw records of one fetch, updating the level
// counters and logging each rejection reason.
func collectValid[T any](
	logger *slog.Logger,
	raws []entity.RawRecord,
	level string,
	ls *LevelStats,
	validate func(entity.RawRecord) (T, *Rejection),
) []T {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, rej := validate(raw)
		if rej != nil {
			atomic.AddInt64(&ls.Invalid, 1)
			metrics.RecordValidation(level, false)
			logger.Warn("record rejected",
				slog.String("level", level),
				slog.String("reason", rej.String()))
			continue
		}
		atomic.AddInt64(&ls.Valid, 1)
		metrics.RecordValidation(level, true)
		out = append(out, v)
	}
	return out
}

// buildRows walks the result tree in order and flattens every
// (user, post, comment) triple into an output row.
func buildRows(tree []UserBranch) []entity.Row {
	var rows []entity.Row
	for _, ub := range tree {
		for _, pb := range ub.Posts {
			for _, c := range pb.Comments {
				rows = append(rows, BuildRow(ub.User, pb.Post, c))
			}
		}
	}
	return rows
}
