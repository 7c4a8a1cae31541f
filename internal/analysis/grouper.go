package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/calbyte/sessiongraph/internal/domain"
)

// Grouper partitions a customer's events into sessions. Implementations
// must keep each emitted group internally time-ordered.
type Grouper interface {
	// Name returns the strategy identifier.
	Name() string

	// Group partitions events into session-id keyed groups. Events that
	// carry an explicit session identifier in their properties keep it
	// verbatim; all others are assigned by the strategy.
	Group(customerID string, events []domain.SessionEvent) map[string][]domain.SessionEvent
}

// NewGrouper returns the strategy registered under name, defaulting to the
// idle-timeout strategy for unknown names.
func NewGrouper(name string, gap time.Duration) Grouper {
	if name == StrategyTimeBucket {
		return &TimeBucketGrouper{}
	}
	return &IdleTimeoutGrouper{Gap: gap}
}

// Strategy names accepted in configuration.
const (
	StrategyIdleTimeout = "idle_timeout"
	StrategyTimeBucket  = "time_bucket"
)

// DefaultSessionGap is the idle gap that closes a session.
const DefaultSessionGap = 30 * time.Minute

func sortEvents(events []domain.SessionEvent) []domain.SessionEvent {
	sorted := make([]domain.SessionEvent, len(events))
	copy(sorted, events)
	// Stable: ties keep input order.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// IdleTimeoutGrouper starts a new session whenever the gap since the
// previous implicit event exceeds Gap. This is the canonical strategy: it
// never splits an active session at an arbitrary clock boundary.
type IdleTimeoutGrouper struct {
	Gap time.Duration
}

func (g *IdleTimeoutGrouper) Name() string { return StrategyIdleTimeout }

func (g *IdleTimeoutGrouper) Group(customerID string, events []domain.SessionEvent) map[string][]domain.SessionEvent {
	gap := g.Gap
	if gap <= 0 {
		gap = DefaultSessionGap
	}

	groups := make(map[string][]domain.SessionEvent)
	var currentID string
	var prev time.Time

	for _, ev := range sortEvents(events) {
		if sid := ev.Property(PropSessionID); sid != "" {
			groups[sid] = append(groups[sid], ev)
			continue
		}

		if currentID == "" || ev.Timestamp.Sub(prev) > gap {
			currentID = fmt.Sprintf("session_%s_%s", customerID, ev.Timestamp.UTC().Format("20060102_1504"))
		}
		prev = ev.Timestamp
		groups[currentID] = append(groups[currentID], ev)
	}

	return groups
}

// TimeBucketGrouper assigns each event to a fixed half-hour bucket of its
// hour. Two events seconds apart can land in different sessions when they
// straddle a bucket boundary; that coarseness is inherent to the strategy.
type TimeBucketGrouper struct{}

func (g *TimeBucketGrouper) Name() string { return StrategyTimeBucket }

func (g *TimeBucketGrouper) Group(customerID string, events []domain.SessionEvent) map[string][]domain.SessionEvent {
	groups := make(map[string][]domain.SessionEvent)

	for _, ev := range sortEvents(events) {
		sid := ev.Property(PropSessionID)
		if sid == "" {
			ts := ev.Timestamp.UTC()
			sid = fmt.Sprintf("session_%s_%s_%d", customerID, ts.Format("20060102_15"), ts.Minute()/30)
		}
		groups[sid] = append(groups[sid], ev)
	}

	return groups
}
