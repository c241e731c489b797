package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go-expediente-dashboard/internal/engine"
	"go-expediente-dashboard/internal/event"
	"go-expediente-dashboard/internal/model"
	"go-expediente-dashboard/internal/retry"
)

// CaseSource yields the full worklist snapshot. Implemented by the direct
// engine client and by the webhook source.
type CaseSource interface {
	FetchCases(ctx context.Context, token string) ([]model.CaseRecord, error)
}

// fetchCall is a single in-flight worklist fetch shared by every caller
// that arrives while it runs.
type fetchCall struct {
	done chan struct{}
	snap *model.CaseSnapshot
	err  error
	gen  uint64
}

// CaseService caches the engine worklist and funnels every case mutation
// through the engine client. One fetch runs at a time; concurrent readers
// join it instead of stacking requests on the engine.
type CaseService struct {
	source   CaseSource
	engine   *engine.Client
	sessions SessionStore
	bus      event.Bus
	ttl      time.Duration
	retry    retry.Policy
	now      func() time.Time

	mu         sync.Mutex
	snapshot   *model.CaseSnapshot
	forced     bool
	inflight   *fetchCall
	startedGen uint64
}

func NewCaseService(source CaseSource, engineClient *engine.Client, sessions SessionStore, bus event.Bus, ttl time.Duration, policy retry.Policy) *CaseService {
	return &CaseService{
		source:   source,
		engine:   engineClient,
		sessions: sessions,
		bus:      bus,
		ttl:      ttl,
		retry:    policy,
		now:      time.Now,
	}
}

// Snapshot returns the cached worklist, fetching from the engine when the
// cache is empty, expired or explicitly invalidated. On a fetch failure a
// stale snapshot is returned rather than the error.
func (s *CaseService) Snapshot(ctx context.Context) (*model.CaseSnapshot, error) {
	var call *fetchCall
	var stale *model.CaseSnapshot
	for call == nil {
		s.mu.Lock()
		if s.snapshot != nil && !s.forced && s.now().Sub(s.snapshot.FetchedAt) < s.ttl {
			snap := s.snapshot
			s.mu.Unlock()
			return snap, nil
		}

		if running := s.inflight; running != nil {
			forced := s.forced
			s.mu.Unlock()
			if !forced {
				return s.waitFetch(ctx, running)
			}
			// An invalidation outdated the running fetch; wait it out and
			// start a fresh one.
			select {
			case <-running.done:
				continue
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		call = &fetchCall{done: make(chan struct{}), gen: s.startedGen}
		s.inflight = call
		s.forced = false
		stale = s.snapshot
		s.mu.Unlock()
	}

	token, ok := s.sessions.Token()
	if !ok {
		s.finishFetch(call, nil, model.ErrNoSession)
		return nil, model.ErrNoSession
	}

	var cases []model.CaseRecord
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var ferr error
		cases, ferr = s.source.FetchCases(ctx, token)
		return ferr
	})
	if err != nil {
		if errors.Is(err, model.ErrSessionExpired) {
			s.sessions.Clear(ctx)
			s.finishFetch(call, nil, err)
			return nil, err
		}
		s.finishFetch(call, nil, err)
		if stale != nil {
			slog.Warn("worklist fetch failed, serving stale snapshot", "age", s.now().Sub(stale.FetchedAt), "error", err)
			return stale, nil
		}
		return nil, err
	}

	snap := &model.CaseSnapshot{Cases: cases, FetchedAt: s.now()}
	s.finishFetch(call, snap, nil)
	s.bus.Emit(event.TypeCasesRefreshed, map[string]any{"total": len(cases)})
	return snap, nil
}

// finishFetch installs the fetch result and wakes joined callers. A result
// whose generation predates an invalidation is handed to its callers but
// never installed as the cache.
func (s *CaseService) finishFetch(call *fetchCall, snap *model.CaseSnapshot, err error) {
	s.mu.Lock()
	call.snap = snap
	call.err = err
	if s.inflight == call {
		s.inflight = nil
	}
	if snap != nil && call.gen == s.startedGen {
		s.snapshot = snap
	}
	s.mu.Unlock()
	close(call.done)
}

func (s *CaseService) waitFetch(ctx context.Context, call *fetchCall) (*model.CaseSnapshot, error) {
	select {
	case <-call.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if call.err != nil {
		s.mu.Lock()
		stale := s.snapshot
		s.mu.Unlock()
		if stale != nil && !errors.Is(call.err, model.ErrSessionExpired) && !errors.Is(call.err, model.ErrNoSession) {
			return stale, nil
		}
		return nil, call.err
	}
	return call.snap, nil
}

func (s *CaseService) GetAllCases(ctx context.Context) ([]model.CaseRecord, time.Time, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}
	return snap.Cases, snap.FetchedAt, nil
}

func (s *CaseService) CasesByStatus(ctx context.Context, status model.CaseStatus) ([]model.CaseRecord, time.Time, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	matched := make([]model.CaseRecord, 0)
	for _, c := range snap.Cases {
		if c.Status == status {
			matched = append(matched, c)
		}
	}
	return matched, snap.FetchedAt, nil
}

func (s *CaseService) CasesByProcess(ctx context.Context, processID string) ([]model.CaseRecord, time.Time, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, time.Time{}, err
	}

	matched := make([]model.CaseRecord, 0)
	for _, c := range snap.Cases {
		if c.ProcessID == processID {
			matched = append(matched, c)
		}
	}
	return matched, snap.FetchedAt, nil
}

// SearchByProcess queries the engine's paged advanced search directly,
// bypassing the cache. Used for processes whose volume exceeds the
// worklist window.
func (s *CaseService) SearchByProcess(ctx context.Context, processID string, start int, limit int) ([]model.CaseRecord, int, error) {
	token, err := s.requireToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	var cases []model.CaseRecord
	var total int
	err = s.retry.Do(ctx, func(ctx context.Context) error {
		var serr error
		cases, total, serr = s.engine.SearchCasesByProcess(ctx, token, processID, start, limit)
		return serr
	})
	if err != nil {
		return nil, 0, s.mapSessionErr(ctx, err)
	}
	return cases, total, nil
}

// InvalidateCache marks the cache for refetch. Bumping the generation
// guarantees any fetch already in flight cannot install a snapshot taken
// before the invalidation.
func (s *CaseService) InvalidateCache() {
	s.mu.Lock()
	s.forced = true
	s.startedGen++
	s.mu.Unlock()
}

// Refresh forces a fresh fetch regardless of TTL.
func (s *CaseService) Refresh(ctx context.Context) (*model.CaseSnapshot, error) {
	s.InvalidateCache()
	return s.Snapshot(ctx)
}

func (s *CaseService) StartCase(ctx context.Context, processID string, taskID string, variables map[string]any) (string, error) {
	if processID == "" || taskID == "" {
		return "", fmt.Errorf("process and task are required: %w", model.ErrInvalidInput)
	}

	token, err := s.requireToken(ctx)
	if err != nil {
		return "", err
	}

	caseID, err := s.engine.StartCase(ctx, token, processID, taskID, variables)
	if err != nil {
		return "", s.mapSessionErr(ctx, err)
	}

	s.InvalidateCache()
	s.bus.Emit(event.TypeCaseStarted, map[string]any{"case_id": caseID, "process_id": processID})
	slog.Info("case started", "case_id", caseID, "process_id", processID)
	return caseID, nil
}

func (s *CaseService) CaseVariables(ctx context.Context, caseID string) (map[string]any, error) {
	token, err := s.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	vars, err := s.engine.CaseVariables(ctx, token, caseID)
	if err != nil {
		return nil, s.mapSessionErr(ctx, err)
	}
	return vars, nil
}

func (s *CaseService) UpdateCaseVariables(ctx context.Context, caseID string, variables map[string]any) error {
	if len(variables) == 0 {
		return fmt.Errorf("no variables to update: %w", model.ErrInvalidInput)
	}

	token, err := s.requireToken(ctx)
	if err != nil {
		return err
	}

	if err := s.engine.UpdateCaseVariables(ctx, token, caseID, variables); err != nil {
		return s.mapSessionErr(ctx, err)
	}
	return nil
}

func (s *CaseService) RouteCase(ctx context.Context, caseID string, taskID string, userID string) error {
	token, err := s.requireToken(ctx)
	if err != nil {
		return err
	}

	if err := s.engine.RouteCase(ctx, token, caseID, taskID, userID); err != nil {
		return s.mapSessionErr(ctx, err)
	}

	s.InvalidateCache()
	s.bus.Emit(event.TypeCaseRouted, map[string]any{"case_id": caseID})
	slog.Info("case routed", "case_id", caseID)
	return nil
}

func (s *CaseService) Processes(ctx context.Context) ([]model.Process, error) {
	token, err := s.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	var procs []model.Process
	err = s.retry.Do(ctx, func(ctx context.Context) error {
		var perr error
		procs, perr = s.engine.FetchProcesses(ctx, token)
		return perr
	})
	if err != nil {
		return nil, s.mapSessionErr(ctx, err)
	}
	return procs, nil
}

func (s *CaseService) ProcessTasks(ctx context.Context, processID string) ([]model.ProcessTask, error) {
	token, err := s.requireToken(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.engine.ProcessTasks(ctx, token, processID)
	if err != nil {
		return nil, s.mapSessionErr(ctx, err)
	}
	return tasks, nil
}

func (s *CaseService) requireToken(_ context.Context) (string, error) {
	token, ok := s.sessions.Token()
	if !ok {
		return "", model.ErrNoSession
	}
	return token, nil
}

// mapSessionErr clears the local session when the engine rejects its token.
func (s *CaseService) mapSessionErr(ctx context.Context, err error) error {
	if errors.Is(err, model.ErrSessionExpired) {
		s.sessions.Clear(ctx)
	}
	return err
}
