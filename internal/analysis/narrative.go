package analysis

import (
	"fmt"
	"strings"

	"github.com/calbyte/sessiongraph/internal/domain"
)

// Departure hypotheses, returned by ClassifyDeparture.
const (
	departurePurchased   = "Mission accomplished! Successfully completed their purchase and departed satisfied."
	departureCartLeft    = "Hesitation at the final frontier - left with items in cart, perhaps to return later."
	departureResearching = "Gathering intelligence on products - likely comparing options before making a decision."
	departureSearching   = "Still seeking the perfect solution - departed mid-quest, possibly to continue elsewhere."
	departureBrowseEnded = "Casual exploration concluded - either found what they needed or lost interest."
	departureUnknown     = "Mysterious departure - their digital footsteps fade without clear resolution."
	departureEmpty       = "Departed as quickly as they arrived - perhaps lost or disinterested."
)

// GenerateChronicle assembles a clause-joined narrative of what the user
// did during the session from the categories of activity observed.
func GenerateChronicle(s *domain.Session) string {
	if len(s.Events) == 0 {
		return "A brief encounter with our digital realm - no significant activity detected."
	}

	var searches, products, cartEvents, purchases int
	for _, ev := range s.Events {
		name := ev.EventName
		if strings.Contains(name, "Search") {
			searches++
		}
		if strings.Contains(name, "Product") {
			products++
		}
		if strings.Contains(name, "Cart") || strings.Contains(name, "Add") {
			cartEvents++
		}
		if strings.Contains(name, "Purchase") || strings.Contains(name, "Order") {
			purchases++
		}
	}

	channel := string(s.Channel)
	if channel == "" {
		channel = "unknown means"
	}
	clauses := []string{fmt.Sprintf("User embarked on a digital journey via %s", channel)}

	if searches > 0 {
		clauses = append(clauses, fmt.Sprintf("conducted %d search expeditions", searches))
	}
	if products > 0 {
		clauses = append(clauses, fmt.Sprintf("explored %d product territories", products))
	}
	if cartEvents > 0 {
		clauses = append(clauses, fmt.Sprintf("gathered %d items for potential acquisition", cartEvents))
	}
	if purchases > 0 {
		clauses = append(clauses, fmt.Sprintf("successfully completed %d purchase missions", purchases))
	}

	duration := s.DurationMinutes()
	switch {
	case duration > 30:
		clauses = append(clauses, fmt.Sprintf("spending %.1f minutes in deep exploration", duration))
	case duration > 5:
		clauses = append(clauses, fmt.Sprintf("browsing for %.1f focused minutes", duration))
	default:
		clauses = append(clauses, "making a swift reconnaissance")
	}

	return strings.Join(clauses, " - ") + "."
}

// ClassifyDeparture inspects the last one to three events and returns the
// first matching hypothesis for why the session ended. The checks are
// priority-ordered substring matches; no scoring is involved.
func ClassifyDeparture(events []domain.SessionEvent) string {
	if len(events) == 0 {
		return departureEmpty
	}

	last := events
	if len(events) > 3 {
		last = events[len(events)-3:]
	}

	if lastNamesContain(last, "Purchase") || lastNamesContain(last, "Order") {
		return departurePurchased
	}
	if lastNamesContain(last, "Cart") || lastNamesContain(last, "Checkout") {
		return departureCartLeft
	}
	if lastNamesContain(last, "Product") {
		return departureResearching
	}
	if lastNamesContain(last, "Search") {
		return departureSearching
	}
	if lastNamesContain(last, "Page") {
		return departureBrowseEnded
	}
	return departureUnknown
}

func lastNamesContain(events []domain.SessionEvent, needle string) bool {
	for _, ev := range events {
		if strings.Contains(ev.EventName, needle) {
			return true
		}
	}
	return false
}

// ConfidenceScore estimates how much the analysis can be trusted, from
// event count (up to 0.4), session duration (up to 0.3), and outcome
// clarity (0.3 for a purchase, 0.2 for a clear goal, otherwise nothing).
func ConfidenceScore(s *domain.Session) float64 {
	if len(s.Events) == 0 {
		return 0.1
	}

	confidence := float64(len(s.Events)) / 20.0
	if confidence > 0.4 {
		confidence = 0.4
	}

	durationPart := s.DurationMinutes() / 30.0
	if durationPart > 0.3 {
		durationPart = 0.3
	}
	confidence += durationPart

	hasPurchase := false
	hasClearGoal := false
	for _, ev := range s.Events {
		if strings.Contains(ev.EventName, "Purchase") {
			hasPurchase = true
		}
		for _, kw := range []string{"Search", "Product", "Cart", "Checkout"} {
			if strings.Contains(ev.EventName, kw) {
				hasClearGoal = true
			}
		}
	}
	switch {
	case hasPurchase:
		confidence += 0.3
	case hasClearGoal:
		confidence += 0.2
	}

	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

// DetectChannel derives the acquisition channel from event properties,
// defaulting to Direct when nothing is recorded.
func DetectChannel(events []domain.SessionEvent) domain.SessionChannel {
	for _, ev := range events {
		channel := strings.ToLower(ev.Property(PropChannel))
		if channel == "" {
			continue
		}
		switch {
		case strings.Contains(channel, "organic"):
			return domain.ChannelOrganicSearch
		case strings.Contains(channel, "paid"):
			return domain.ChannelPaidSearch
		case strings.Contains(channel, "social"):
			return domain.ChannelSocial
		case strings.Contains(channel, "email"):
			return domain.ChannelEmail
		case strings.Contains(channel, "referral"):
			return domain.ChannelReferral
		case strings.Contains(channel, "direct"):
			return domain.ChannelDirect
		}
	}
	return domain.ChannelDirect
}

// Summarize aggregates behavioral signals across the session's events.
func Summarize(s *domain.Session) *domain.SessionSummary {
	pageTypes := make(map[string]struct{})
	var footprint []string
	var totalRevenue float64
	var cartEvents, purchaseEvents int

	for _, ev := range s.Events {
		if ev.PageType != "" {
			if _, seen := pageTypes[ev.PageType]; !seen {
				pageTypes[ev.PageType] = struct{}{}
				if len(footprint) < 5 {
					footprint = append(footprint, ev.PageType)
				}
			}
		}
		totalRevenue += ev.Revenue
		lower := strings.ToLower(ev.EventName)
		if strings.Contains(lower, "cart") {
			cartEvents++
		}
		if strings.Contains(lower, "purchase") || strings.Contains(lower, "order") {
			purchaseEvents++
		}
	}

	summary := &domain.SessionSummary{
		TotalEvents:      len(s.Events),
		UniquePages:      len(pageTypes),
		TimeSpentMinutes: s.DurationMinutes(),
		Bounce:           len(s.Events) <= 1,
		RevenueGenerated: totalRevenue,
		ItemsPurchased:   purchaseEvents,
		CartAbandonment:  cartEvents > 0 && purchaseEvents == 0,
		DigitalFootprint: footprint,
	}

	if cartEvents > 0 || purchaseEvents > 0 {
		summary.PurchaseIntentScore = capped(float64(cartEvents+purchaseEvents*2) / 10)
	}
	if len(s.Events) > 5 {
		summary.EngagementDepth = capped(float64(len(s.Events)) / 20)
	}

	vetEvents := 0
	for _, ev := range s.Events {
		if containsAny(strings.ToLower(ev.EventName), vetCareKeywords) {
			vetEvents++
		}
	}
	if vetEvents > 0 {
		summary.VetCareInterest = capped(float64(vetEvents) / 5)
	}

	return summary
}

func capped(v float64) float64 {
	if v > 1.0 {
		return 1.0
	}
	return v
}

// SemanticTags derives behavioral labels from a customer's persisted
// session records.
func SemanticTags(records []domain.SessionRecord) []string {
	if len(records) == 0 {
		return []string{"general-browser"}
	}

	var tags []string
	var highValue int
	var totalDuration, totalEvents float64
	var content strings.Builder

	for _, rec := range records {
		if rec.ImportanceLevel.AtLeast(domain.ImportanceSignificant) {
			highValue++
		}
		totalDuration += rec.DurationMinutes
		totalEvents += float64(rec.EventCount)
		content.WriteString(strings.ToLower(rec.Chronicle))
		content.WriteString(" ")
		content.WriteString(strings.ToLower(rec.DepartureReason))
		content.WriteString(" ")
	}

	n := float64(len(records))
	if float64(highValue)/n > 0.6 {
		tags = append(tags, "high-intent-user")
	}

	avgDuration := totalDuration / n
	if avgDuration > 30 {
		tags = append(tags, "thorough-researcher")
	} else if avgDuration < 5 {
		tags = append(tags, "quick-browser")
	}

	avgEvents := totalEvents / n
	if avgEvents > 50 {
		tags = append(tags, "active-explorer")
	} else if avgEvents < 10 {
		tags = append(tags, "focused-visitor")
	}

	text := content.String()
	for _, pattern := range []struct {
		tag      string
		keywords []string
	}{
		{"purchase-oriented", []string{"purchase", "buy"}},
		{"comparison-shopper", []string{"compare", "research"}},
		{"cart-user", []string{"cart"}},
		{"search-driven", []string{"search"}},
		{"price-conscious", []string{"price", "discount"}},
		{"review-reader", []string{"review"}},
		{"pet-focused", []string{"pet", "dog", "cat"}},
	} {
		if containsAny(text, pattern.keywords) {
			tags = append(tags, pattern.tag)
		}
	}

	if len(tags) == 0 {
		tags = append(tags, "general-browser")
	}
	return tags
}
