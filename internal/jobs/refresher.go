package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"go-expediente-dashboard/internal/event"
	"go-expediente-dashboard/internal/service"
)

// Refresher keeps the worklist cache warm in the background so a dashboard
// opened after an idle stretch does not pay the engine round-trip. Each tick
// recomputes the headline stats and announces them on the bus.
type Refresher struct {
	cases    *service.CaseService
	sessions service.SessionStore
	bus      event.Bus
	loc      *time.Location
	spec     string
	cron     *cron.Cron
}

func NewRefresher(cases *service.CaseService, sessions service.SessionStore, bus event.Bus, loc *time.Location, spec string) *Refresher {
	if loc == nil {
		loc = time.Local
	}
	return &Refresher{
		cases:    cases,
		sessions: sessions,
		bus:      bus,
		loc:      loc,
		spec:     spec,
	}
}

func (r *Refresher) Start() error {
	c := cron.New(cron.WithLocation(r.loc))
	if _, err := c.AddFunc(r.spec, r.tick); err != nil {
		return err
	}
	c.Start()
	r.cron = c

	slog.Info("background refresh scheduled", "spec", r.spec)
	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (r *Refresher) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}

func (r *Refresher) tick() {
	if !r.sessions.Valid() {
		slog.Debug("refresh skipped, no active session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	snap, err := r.cases.Refresh(ctx)
	if err != nil {
		slog.Warn("background worklist refresh failed", "error", err)
		return
	}

	stats := service.ComputeStats(snap, time.Now(), r.loc)
	r.bus.Emit(event.TypeStatsUpdated, stats)
	slog.Debug("worklist refreshed", "total", stats.Total, "pending", stats.Pending)
}
