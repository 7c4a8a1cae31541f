package domain

import "time"

// EventCategory classifies an event's semantic type. The set is closed;
// an empty value means the event was never categorized.
type EventCategory string

const (
	CategoryEcommerce  EventCategory = "ecommerce"
	CategoryEngagement EventCategory = "engagement"
	CategoryConversion EventCategory = "conversion"
	CategoryNavigation EventCategory = "navigation"
	CategoryAccount    EventCategory = "account"
	CategoryVetCare    EventCategory = "vet_care"
	CategoryProduct    EventCategory = "product"
)

// SessionEvent is a single user action from the clickstream. Events are
// created once by the parser and never mutated afterwards; the owning
// Session holds them in chronological order.
type SessionEvent struct {
	EventID    string            `json:"event_id"`
	EventName  string            `json:"event_name"`
	Timestamp  time.Time         `json:"timestamp"`
	Category   EventCategory     `json:"category,omitempty"`
	PageType   string            `json:"page_type,omitempty"`
	ProductSKU string            `json:"product_sku,omitempty"`
	Revenue    float64           `json:"revenue,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

// Property returns a side-channel value from the properties bag, or ""
// when the key is absent.
func (e SessionEvent) Property(key string) string {
	if e.Properties == nil {
		return ""
	}
	return e.Properties[key]
}
