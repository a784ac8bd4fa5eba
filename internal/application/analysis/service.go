package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ecomlabs/research-agent/internal/application"
	domain "github.com/ecomlabs/research-agent/internal/domain/analysis"
	"github.com/ecomlabs/research-agent/internal/domain/research"
	"github.com/ecomlabs/research-agent/internal/middleware"
	"github.com/ecomlabs/research-agent/pkg/errors"
	"github.com/ecomlabs/research-agent/pkg/logger"
)

// Service implements use-cases for analysis runs.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo   domain.Repository
	Runner research.Runner
	Clock  application.Clock
	log    *logger.Logger
}

func NewService(repo domain.Repository, runner research.Runner, clock application.Clock) *Service {
	return &Service{
		Repo:   repo,
		Runner: runner,
		Clock:  clock,
		log:    logger.Get().With("component", "analysis"),
	}
}

// Start validates the query, persists a running record and kicks off the
// research workflow in the background. The record is returned immediately
// so the caller can poll for the result.
func (s *Service) Start(ctx context.Context, query string) (*domain.Analysis, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "query must not be empty")
	}

	rec := &domain.Analysis{
		ID:        domain.AnalysisID(uuid.New().String()),
		Query:     query,
		Status:    domain.StatusRunning,
		CreatedAt: s.Clock.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	middleware.IncrementAnalyses()

	go s.ExecuteUntilDone(rec.ID, query)

	return rec, nil
}

// ExecuteUntilDone runs Execute with context.Background() so the workflow
// survives the HTTP request that triggered it.
func (s *Service) ExecuteUntilDone(id domain.AnalysisID, query string) {
	s.Execute(context.Background(), id, query)
}

// Execute drives one research run to a terminal state. It is idempotent:
// a record that already completed or failed is left untouched. Panics in
// the runner are recovered and recorded as failures, so the record can
// never be left running forever.
func (s *Service) Execute(ctx context.Context, id domain.AnalysisID, query string) {
	existing, err := s.Repo.Get(ctx, id)
	if err != nil {
		s.log.Errorw("load analysis before run", "id", id, "error", err)
		return
	}
	if existing.IsTerminal() {
		s.log.Debugw("analysis already terminal, skipping", "id", id, "status", existing.Status)
		return
	}

	middleware.IncrementAnalysesRunning()

	rc := &research.Context{}
	runErr := s.supervise(ctx, query, rc)
	s.log.Debugw("run finished", "id", id, "result", rc.Snapshot())
	s.finalize(id, rc, runErr)
}

func (s *Service) supervise(ctx context.Context, query string, rc *research.Context) (runErr error) {
	defer func() {
		if p := recover(); p != nil {
			runErr = fmt.Errorf("research run panicked: %v", p)
		}
	}()
	return s.Runner.Run(ctx, query, rc)
}

// finalize always writes a terminal state. ErrRunFinished is the normal
// termination signal; anything else marks the record failed.
func (s *Service) finalize(id domain.AnalysisID, rc *research.Context, runErr error) {
	defer middleware.DecrementAnalysesRunning()

	now := s.Clock.Now().UTC()
	u := domain.Update{CompletedAt: &now}

	if runErr == nil || errors.Is(runErr, research.ErrRunFinished) {
		st := domain.StatusCompleted
		u.Status = &st
		if rc.ReportPath != "" {
			path := rc.ReportPath
			u.Report = &path
		}
	} else {
		st := domain.StatusFailed
		msg := runErr.Error()
		u.Status = &st
		u.Error = &msg
		middleware.IncrementAnalysesFailed()
		s.log.Errorw("research run failed", "id", id, "error", runErr)
	}

	if err := s.Repo.Update(context.Background(), id, u); err != nil {
		s.log.Errorw("finalize analysis", "id", id, "error", err)
	}
}

// Get returns one analysis by id.
func (s *Service) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Repo.Get(ctx, id)
}

// List returns all analyses, newest first.
func (s *Service) List(ctx context.Context) ([]*domain.Analysis, error) {
	return s.Repo.List(ctx)
}
