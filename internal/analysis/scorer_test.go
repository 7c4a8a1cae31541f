package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/calbyte/sessiongraph/internal/domain"
)

func scoredEvent(name string, ts time.Time, revenue float64) domain.SessionEvent {
	return domain.SessionEvent{
		EventID:   "evt",
		EventName: name,
		Timestamp: ts,
		Category:  Categorize(name),
		Revenue:   revenue,
	}
}

func TestScorePurchaseSessionIsCritical(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	events := []domain.SessionEvent{
		scoredEvent("Search Performed", base, 0),
		scoredEvent("Product Viewed", base.Add(2*time.Minute), 0),
		scoredEvent("Product Added", base.Add(4*time.Minute), 0),
		scoredEvent("Checkout Started", base.Add(6*time.Minute), 0),
		scoredEvent("Order Completed", base.Add(8*time.Minute), 120),
	}

	score, level := ScoreEvents(events)

	// 8 + (5+5) + (25+5) + (25+15) + (50+15+50 revenue cap) = 203.
	assert.Equal(t, domain.ImportanceCritical, level)
	assert.GreaterOrEqual(t, score, 140.0)
}

func TestScoreSinglePageViewIsLow(t *testing.T) {
	events := []domain.SessionEvent{
		scoredEvent("Page Viewed", time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), 0),
	}

	score, level := ScoreEvents(events)

	assert.Equal(t, 1.0, score)
	assert.Equal(t, domain.ImportanceLow, level)
}

func TestScoreEmptySession(t *testing.T) {
	score, level := ScoreEvents(nil)

	assert.Zero(t, score)
	assert.Equal(t, domain.ImportanceLow, level)
}

func TestScoreCriticalBoundary(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	// Cart Updated 20 + ecommerce 15, Category Browsed 3, Button Clicked 2:
	// exactly 40 with no volume or duration bonus.
	atBoundary := []domain.SessionEvent{
		scoredEvent("Cart Updated", base, 0),
		scoredEvent("Category Browsed", base.Add(time.Minute), 0),
		scoredEvent("Button Clicked", base.Add(2*time.Minute), 0),
	}
	score, level := ScoreEvents(atBoundary)
	assert.Equal(t, 40.0, score)
	assert.Equal(t, domain.ImportanceCritical, level)

	// Swap the 2-point click for a 1-point view and the session drops a tier.
	below := []domain.SessionEvent{
		scoredEvent("Cart Updated", base, 0),
		scoredEvent("Category Browsed", base.Add(time.Minute), 0),
		scoredEvent("Page Viewed", base.Add(2*time.Minute), 0),
	}
	score, level = ScoreEvents(below)
	assert.Equal(t, 39.0, score)
	assert.Equal(t, domain.ImportanceSignificant, level)
}

func TestScoreVolumeAndDurationBonuses(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	var events []domain.SessionEvent
	for i := 0; i < 21; i++ {
		events = append(events, scoredEvent("Scroll Reached", base.Add(time.Duration(i*2)*time.Minute), 0))
	}

	score, _ := ScoreEvents(events)

	// 21 points base, +15 volume (>20 events), +10 duration (40 min span).
	assert.Equal(t, 46.0, score)
}

func TestScoreRevenueCappedPerEvent(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	capped, _ := ScoreEvents([]domain.SessionEvent{scoredEvent("Order Completed", base, 900)})
	exact, _ := ScoreEvents([]domain.SessionEvent{scoredEvent("Order Completed", base, 50)})

	assert.Equal(t, exact, capped)
}

func TestScoreUnknownEventName(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	score, level := ScoreEvents([]domain.SessionEvent{scoredEvent("Mystery Happened", base, 0)})

	assert.Zero(t, score)
	assert.Equal(t, domain.ImportanceLow, level)
}

func TestScoreVetCareBonus(t *testing.T) {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

	score, level := ScoreEvents([]domain.SessionEvent{scoredEvent("Vet Appointment Booked", base, 0)})

	// 45 weight + 20 vet care category.
	assert.Equal(t, 65.0, score)
	assert.Equal(t, domain.ImportanceCritical, level)
}
