// Package stream drives the live "total streamed" counters.
package stream

import (
	"context"

	positionDI "github.com/fd1az/superboost/business/position/di"
	positionDomain "github.com/fd1az/superboost/business/position/domain"
	"github.com/fd1az/superboost/business/stream/app"
	streamDI "github.com/fd1az/superboost/business/stream/di"
	"github.com/fd1az/superboost/business/stream/domain"
	"github.com/fd1az/superboost/internal/config"
	"github.com/fd1az/superboost/internal/di"
	"github.com/fd1az/superboost/internal/logger"
	"github.com/fd1az/superboost/internal/monolith"
)

// Module implements the stream bounded context.
type Module struct{}

func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, streamDI.Estimator, func(sr di.ServiceRegistry) *app.Estimator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		return app.NewEstimator(cfg.Stream.FrameInterval, log)
	})
	return nil
}

// Startup binds the counters to position snapshots: every new snapshot
// re-syncs the loops, and the loops live as long as ctx.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	est := streamDI.GetEstimator(mono.Services())
	positions := positionDI.GetPositionService(mono.Services())

	sync := func(s *positionDomain.Snapshot) {
		est.Sync(ctx, Streams(positionDomain.Project(s)))
	}
	positions.OnUpdate(sync)
	sync(positions.Latest())

	go func() {
		<-ctx.Done()
		est.Stop()
	}()

	log.Info(ctx, "stream module started", "counters", len(est.Running()))
	return nil
}

// Streams maps projected positions to counter inputs.
func Streams(ps []positionDomain.ActivePosition) []domain.Stream {
	out := make([]domain.Stream, 0, len(ps))
	for _, p := range ps {
		out = append(out, domain.Stream{PoolID: p.PoolID, FlowRate: p.FlowRate, StartedAt: p.StartedAt})
	}
	return out
}
