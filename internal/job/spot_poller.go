package job

import (
	"context"
	"log"
	"time"

	"sats-market/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// SpotRefresher is the resolver slice the poller drives.
type SpotRefresher interface {
	ResolveBtcSpot(ctx context.Context) (*domain.SpotPrice, error)
}

// SpotPoller keeps the BTC spot cache warm so interactive requests rarely
// pay the upstream latency. It only goes through the read-through resolver,
// so cache semantics are unchanged.
type SpotPoller struct {
	tracer       trace.Tracer
	resolver     SpotRefresher
	pollInterval time.Duration
}

func NewSpotPoller(tracer trace.Tracer, resolver SpotRefresher, pollIntervalSecs int) *SpotPoller {
	return &SpotPoller{
		tracer:       tracer,
		resolver:     resolver,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start polls until ctx is cancelled. Runs once immediately on start.
func (p *SpotPoller) Start(ctx context.Context) {
	log.Println("Spot poller starting...")

	if _, err := p.resolver.ResolveBtcSpot(ctx); err != nil {
		log.Printf("spot poller initial run error: %v", err)
	}

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Spot poller stopped")
			return
		case <-ticker.C:
			if _, err := p.resolver.ResolveBtcSpot(ctx); err != nil {
				log.Printf("spot poller error: %v", err)
			}
		}
	}
}
