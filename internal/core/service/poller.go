package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Poller drives the sync engine on a recurring timer. One cold-start cycle
// runs immediately so changes made just before startup are not missed.
type Poller struct {
	engine   *SyncEngine
	interval time.Duration
	log      *zap.Logger
}

func NewPoller(engine *SyncEngine, interval time.Duration, log *zap.Logger) *Poller {
	return &Poller{engine: engine, interval: interval, log: log}
}

// Run blocks until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.log.Info("starting sync polling", zap.Duration("interval", p.interval))
	p.engine.RunCycle(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("sync polling stopped")
			return
		case <-ticker.C:
			p.engine.RunCycle(ctx)
		}
	}
}
