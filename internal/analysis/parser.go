package analysis

import (
	"strconv"
	"strings"
	"time"

	"github.com/calbyte/sessiongraph/internal/domain"
)

// Source column names expected in the raw clickstream export.
const (
	ColEventID    = "EVENT_ID"
	ColEventName  = "EVENT_NAME"
	ColTimestamp  = "EVENT_TIMESTAMP"
	ColCustomerID = "CUSTOMER_ID"
	ColPageType   = "PAGE_TYPE"
	ColProductSKU = "PAGE_PRODUCT_SKU"
	ColRevenue    = "REVENUE"
	ColSessionID  = "SESSION_ID"
	ColChannel    = "CHANNEL_GROUPING"

	// Property-bag keys after lower-casing.
	PropSessionID = "session_id"
	PropChannel   = "channel_grouping"
)

// propertyAllowList are the non-PROPERTIES columns copied into the event's
// properties bag.
var propertyAllowList = map[string]struct{}{
	ColPageType:   {},
	ColRevenue:    {},
	ColProductSKU: {},
	ColSessionID:  {},
	ColChannel:    {},
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// Parser converts raw clickstream rows into typed events. It holds no
// mutable state; parsing the same row twice yields equal events.
type Parser struct{}

// NewParser returns an event parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts one raw row into a SessionEvent. Rows missing any of the
// three required fields, or carrying an unparsable timestamp, are dropped:
// ok is false and no error is ever returned.
func (p *Parser) Parse(row map[string]string) (*domain.SessionEvent, bool) {
	eventID := strings.TrimSpace(row[ColEventID])
	eventName := strings.TrimSpace(row[ColEventName])
	rawTime := strings.TrimSpace(row[ColTimestamp])
	if eventID == "" || eventName == "" || rawTime == "" {
		return nil, false
	}

	ts, err := ParseTimestamp(rawTime)
	if err != nil {
		return nil, false
	}

	ev := &domain.SessionEvent{
		EventID:    eventID,
		EventName:  eventName,
		Timestamp:  ts,
		Category:   Categorize(eventName),
		PageType:   row[ColPageType],
		ProductSKU: row[ColProductSKU],
		Revenue:    parseRevenue(row[ColRevenue]),
	}

	props := make(map[string]string)
	for key, value := range row {
		if value == "" {
			continue
		}
		_, allowed := propertyAllowList[key]
		if !allowed && !strings.HasPrefix(key, "PROPERTIES") {
			continue
		}
		props[strings.ToLower(key)] = value
	}
	if len(props) > 0 {
		ev.Properties = props
	}

	return ev, true
}

// ParseTimestamp interprets an ISO-8601-ish timestamp string. A trailing Z
// is normalized to an explicit UTC offset before parsing.
func ParseTimestamp(raw string) (time.Time, error) {
	s := raw
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parseRevenue(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// Keyword sets for categorization, checked in precedence order.
var (
	ecommerceKeywords = []string{"purchase", "order", "cart", "checkout", "payment"}
	vetCareKeywords   = []string{
		"vet", "veterinary", "appointment", "health", "medical",
		"prescription", "medication", "treatment", "exam", "checkup",
	}
	productKeywords = []string{
		"product", "item", "add to cart", "buy",
		"cart", "checkout", "order", "review", "rating",
	}
	accountKeywords    = []string{"login", "register", "account", "profile"}
	conversionKeywords = []string{"conversion", "goal", "complete", "submit"}
	engagementKeywords = []string{
		"search", "filter", "compare", "video", "content",
		"article", "guide", "tutorial", "review",
	}
)

// Categorize maps an event name onto its category with first-match-wins
// precedence: ecommerce, vet care, product, account, conversion,
// engagement, then navigation as the default. Matching is case-insensitive
// substring search.
func Categorize(eventName string) domain.EventCategory {
	name := strings.ToLower(eventName)

	switch {
	case containsAny(name, ecommerceKeywords):
		return domain.CategoryEcommerce
	case containsAny(name, vetCareKeywords):
		return domain.CategoryVetCare
	case containsAny(name, productKeywords):
		return domain.CategoryProduct
	case containsAny(name, accountKeywords):
		return domain.CategoryAccount
	case containsAny(name, conversionKeywords):
		return domain.CategoryConversion
	case containsAny(name, engagementKeywords):
		return domain.CategoryEngagement
	default:
		return domain.CategoryNavigation
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
