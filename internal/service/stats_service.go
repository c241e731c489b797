package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-expediente-dashboard/internal/catalog"
	"go-expediente-dashboard/internal/model"
)

const (
	recentActivityLimit = 10
	recentStartedLimit  = 5
	recentFinishedLimit = 3
	recentOverdueLimit  = 3
	recentWindow        = 24 * time.Hour
)

// StatsService derives dashboard aggregates from the cached worklist. All
// computation is local; the only engine traffic is the underlying snapshot
// fetch.
type StatsService struct {
	cases      *CaseService
	classifier *catalog.Classifier
	loc        *time.Location
	now        func() time.Time
}

func NewStatsService(cases *CaseService, classifier *catalog.Classifier, loc *time.Location) *StatsService {
	if loc == nil {
		loc = time.Local
	}
	return &StatsService{
		cases:      cases,
		classifier: classifier,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *StatsService) Stats(ctx context.Context) (model.DashboardStats, error) {
	snap, err := s.cases.Snapshot(ctx)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return ComputeStats(snap, s.now(), s.loc), nil
}

func (s *StatsService) Activity(ctx context.Context) ([]model.ActivityItem, error) {
	snap, err := s.cases.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return RecentActivity(snap, s.now()), nil
}

func (s *StatsService) Categories(ctx context.Context) (map[catalog.Category]int, error) {
	snap, err := s.cases.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[catalog.Category]int, len(catalog.Categories()))
	for _, cat := range catalog.Categories() {
		counts[cat] = 0
	}
	for _, c := range snap.Cases {
		counts[s.classifier.Classify(c.ProcessTitle)]++
	}
	return counts, nil
}

func (s *StatsService) Metrics(ctx context.Context) (model.PerformanceMetrics, error) {
	snap, err := s.cases.Snapshot(ctx)
	if err != nil {
		return model.PerformanceMetrics{}, err
	}
	return ComputeMetrics(snap, s.now()), nil
}

// ComputeStats folds a worklist snapshot into the dashboard counters.
// "Completed today" and "overdue" are judged in loc, the timezone the
// engine writes its timestamps in.
func ComputeStats(snap *model.CaseSnapshot, now time.Time, loc *time.Location) model.DashboardStats {
	stats := model.DashboardStats{
		ByStatus:  make(map[model.CaseStatus]int),
		ByProcess: make(map[string]int),
		FetchedAt: snap.FetchedAt,
	}

	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)

	for _, c := range snap.Cases {
		stats.Total++
		stats.ByStatus[c.Status]++
		if c.ProcessTitle != "" {
			stats.ByProcess[c.ProcessTitle]++
		}

		if isPending(c.Status) {
			stats.Pending++
			if isOverdue(c, now) {
				stats.Overdue++
			}
		}

		// A set finish date is what marks completion; the status field can
		// lag behind it on some engine versions.
		if c.FinishedAt != nil {
			finished := c.FinishedAt.In(loc)
			if !finished.Before(today) && finished.Before(today.Add(24*time.Hour)) {
				stats.CompletedToday++
			}
		}
	}

	return stats
}

// Pending is TO_DO only; draft and paused cases are excluded from the
// pending, overdue and load counters.
func isPending(status model.CaseStatus) bool {
	return status == model.StatusToDo
}

func isOverdue(c model.CaseRecord, now time.Time) bool {
	return !c.DueAt.IsZero() && c.DueAt.Before(now)
}

// RecentActivity assembles the activity feed from a snapshot: up to five
// cases started in the last 24h, three completed in the last 24h and three
// currently overdue, merged newest-first and capped at ten entries.
func RecentActivity(snap *model.CaseSnapshot, now time.Time) []model.ActivityItem {
	cutoff := now.Add(-recentWindow)

	type ordered struct {
		item model.ActivityItem
		idx  int
	}
	var items []ordered

	started := make([]int, 0, len(snap.Cases))
	for i, c := range snap.Cases {
		if c.CreatedAt.After(cutoff) {
			started = append(started, i)
		}
	}
	sort.SliceStable(started, func(a, b int) bool {
		return snap.Cases[started[a]].CreatedAt.After(snap.Cases[started[b]].CreatedAt)
	})
	if len(started) > recentStartedLimit {
		started = started[:recentStartedLimit]
	}
	for _, i := range started {
		c := snap.Cases[i]
		items = append(items, ordered{idx: i, item: model.ActivityItem{
			ID:          fmt.Sprintf("started_%s", c.ID),
			Kind:        model.ActivityStarted,
			CaseID:      c.ID,
			Description: fmt.Sprintf("Expediente #%s iniciado: %s", c.Number, c.ProcessTitle),
			ActorName:   c.CreatedByName,
			Timestamp:   c.CreatedAt,
		}})
	}

	finished := make([]int, 0, len(snap.Cases))
	for i, c := range snap.Cases {
		if c.FinishedAt != nil && c.FinishedAt.After(cutoff) {
			finished = append(finished, i)
		}
	}
	sort.SliceStable(finished, func(a, b int) bool {
		return snap.Cases[finished[a]].FinishedAt.After(*snap.Cases[finished[b]].FinishedAt)
	})
	if len(finished) > recentFinishedLimit {
		finished = finished[:recentFinishedLimit]
	}
	for _, i := range finished {
		c := snap.Cases[i]
		items = append(items, ordered{idx: i, item: model.ActivityItem{
			ID:          fmt.Sprintf("completed_%s", c.ID),
			Kind:        model.ActivityCompleted,
			CaseID:      c.ID,
			Description: fmt.Sprintf("Expediente #%s finalizado: %s", c.Number, c.ProcessTitle),
			ActorName:   c.AssignedUserName,
			Timestamp:   *c.FinishedAt,
		}})
	}

	overdue := 0
	for i, c := range snap.Cases {
		if overdue == recentOverdueLimit {
			break
		}
		if !isPending(c.Status) || !isOverdue(c, now) {
			continue
		}
		overdue++
		items = append(items, ordered{idx: i, item: model.ActivityItem{
			ID:          fmt.Sprintf("overdue_%s", c.ID),
			Kind:        model.ActivityOverdue,
			CaseID:      c.ID,
			Description: fmt.Sprintf("Expediente #%s vencido: %s", c.Number, c.TaskTitle),
			ActorName:   c.AssignedUserName,
			Timestamp:   c.DueAt,
		}})
	}

	sort.SliceStable(items, func(a, b int) bool {
		if !items[a].item.Timestamp.Equal(items[b].item.Timestamp) {
			return items[a].item.Timestamp.After(items[b].item.Timestamp)
		}
		return items[a].idx < items[b].idx
	})
	if len(items) > recentActivityLimit {
		items = items[:recentActivityLimit]
	}

	result := make([]model.ActivityItem, len(items))
	for i, o := range items {
		result[i] = o.item
	}
	return result
}

// ComputeMetrics derives throughput figures from a snapshot.
func ComputeMetrics(snap *model.CaseSnapshot, now time.Time) model.PerformanceMetrics {
	m := model.PerformanceMetrics{TotalCases: len(snap.Cases)}

	week := now.Add(-7 * 24 * time.Hour)
	month := now.Add(-30 * 24 * time.Hour)

	var completed int
	var resolutionHours float64
	var resolved int
	for _, c := range snap.Cases {
		if c.CreatedAt.After(week) {
			m.CasesLast7Days++
		}
		if c.CreatedAt.After(month) {
			m.CasesLast30Days++
		}
		if isPending(c.Status) {
			m.CurrentLoad++
		}
		if c.Status == model.StatusCompleted {
			completed++
			if c.FinishedAt != nil && c.FinishedAt.After(c.CreatedAt) {
				resolved++
				resolutionHours += c.FinishedAt.Sub(c.CreatedAt).Hours()
			}
		}
	}

	if m.TotalCases > 0 {
		m.CompletionRate = float64(completed) / float64(m.TotalCases)
	}
	if resolved > 0 {
		m.AvgResolutionHours = resolutionHours / float64(resolved)
	}
	return m
}
