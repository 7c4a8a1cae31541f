package analysis

import "github.com/calbyte/sessiongraph/internal/domain"

// eventWeights maps exact event names to their base importance weight.
// Names absent from the table contribute nothing from this term.
var eventWeights = map[string]float64{
	// High business value.
	"Order Completed":       50,
	"Purchase":              50,
	"Payment Processed":     50,
	"Vet Appointment Booked": 45,
	"Prescription Ordered":  40,
	"Autoship Created":      35,

	// Medium business value.
	"Account Created":  30,
	"Product Added":    25,
	"Checkout Started": 25,
	"Cart Updated":     20,
	"Profile Updated":  20,
	"Review Submitted": 15,

	// Engagement indicators.
	"Video Watched":    10,
	"Search Performed": 8,
	"Content Engaged":  7,
	"Product Viewed":   5,
	"Category Browsed": 3,

	// Basic navigation.
	"Button Clicked": 2,
	"Link Clicked":   2,
	"Page Viewed":    1,
	"Scroll Reached": 1,
}

// Classification thresholds, evaluated high to low.
const (
	criticalThreshold    = 40
	significantThreshold = 20
	moderateThreshold    = 8
)

// Revenue on a single event is capped at this many points.
const revenueCap = 50

// ScoreEvents computes a session's numeric importance score and its tier.
// The score is strictly additive over independent signals: per-name event
// weights, category bonuses, capped revenue, session volume and session
// duration. It is a pure function, total over its input domain.
func ScoreEvents(events []domain.SessionEvent) (float64, domain.ImportanceLevel) {
	var score float64

	for _, ev := range events {
		score += eventWeights[ev.EventName]

		switch ev.Category {
		case domain.CategoryEcommerce:
			score += 15
		case domain.CategoryVetCare:
			score += 20
		case domain.CategoryProduct:
			score += 5
		}

		if ev.Revenue > 0 {
			if ev.Revenue > revenueCap {
				score += revenueCap
			} else {
				score += ev.Revenue
			}
		}
	}

	switch {
	case len(events) > 20:
		score += 15
	case len(events) > 10:
		score += 8
	}

	if len(events) >= 2 {
		duration := events[len(events)-1].Timestamp.Sub(events[0].Timestamp).Minutes()
		switch {
		case duration > 30:
			score += 10
		case duration > 10:
			score += 5
		}
	}

	return score, classify(score)
}

func classify(score float64) domain.ImportanceLevel {
	switch {
	case score >= criticalThreshold:
		return domain.ImportanceCritical
	case score >= significantThreshold:
		return domain.ImportanceSignificant
	case score >= moderateThreshold:
		return domain.ImportanceModerate
	default:
		return domain.ImportanceLow
	}
}
