package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calbyte/sessiongraph/internal/domain"
)

func TestParseValidRow(t *testing.T) {
	p := NewParser()

	ev, ok := p.Parse(map[string]string{
		ColEventID:    "evt-1",
		ColEventName:  "Product Viewed",
		ColTimestamp:  "2024-03-15T10:30:00Z",
		ColCustomerID: "cust-42",
		ColPageType:   "product_detail",
		ColProductSKU: "SKU-123",
		ColRevenue:    "19.99",
	})

	require.True(t, ok)
	assert.Equal(t, "evt-1", ev.EventID)
	assert.Equal(t, "Product Viewed", ev.EventName)
	assert.Equal(t, domain.CategoryProduct, ev.Category)
	assert.Equal(t, "product_detail", ev.PageType)
	assert.Equal(t, "SKU-123", ev.ProductSKU)
	assert.Equal(t, 19.99, ev.Revenue)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), ev.Timestamp.UTC())
}

func TestParseDropsIncompleteRows(t *testing.T) {
	p := NewParser()

	cases := []struct {
		name string
		row  map[string]string
	}{
		{"missing event id", map[string]string{
			ColEventName: "Page Viewed",
			ColTimestamp: "2024-03-15T10:30:00Z",
		}},
		{"missing event name", map[string]string{
			ColEventID:   "evt-1",
			ColTimestamp: "2024-03-15T10:30:00Z",
		}},
		{"missing timestamp", map[string]string{
			ColEventID:   "evt-1",
			ColEventName: "Page Viewed",
		}},
		{"garbage timestamp", map[string]string{
			ColEventID:   "evt-1",
			ColEventName: "Page Viewed",
			ColTimestamp: "yesterday around noon",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := p.Parse(tc.row)
			assert.False(t, ok)
			assert.Nil(t, ev)
		})
	}
}

func TestParseCopiesSessionProperties(t *testing.T) {
	p := NewParser()

	ev, ok := p.Parse(map[string]string{
		ColEventID:   "evt-9",
		ColEventName: "Page Viewed",
		ColTimestamp: "2024-03-15T10:30:00Z",
		ColSessionID: "session_abc",
		ColChannel:   "Organic Search",
		"IRRELEVANT": "dropped",
	})

	require.True(t, ok)
	assert.Equal(t, "session_abc", ev.Property(PropSessionID))
	assert.Equal(t, "Organic Search", ev.Property(PropChannel))
	assert.Equal(t, "", ev.Property("irrelevant"))
}

func TestParseIsIdempotent(t *testing.T) {
	p := NewParser()
	row := map[string]string{
		ColEventID:   "evt-7",
		ColEventName: "Search Performed",
		ColTimestamp: "2024-03-15T10:30:00.123456Z",
	}

	first, ok1 := p.Parse(row)
	second, ok2 := p.Parse(row)

	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestParseTimestampLayouts(t *testing.T) {
	cases := []string{
		"2024-03-15T10:30:00Z",
		"2024-03-15T10:30:00+00:00",
		"2024-03-15T10:30:00.123456Z",
		"2024-03-15T10:30:00",
		"2024-03-15 10:30:00",
		"2024-03-15 10:30:00.5",
	}
	for _, raw := range cases {
		t.Run(raw, func(t *testing.T) {
			ts, err := ParseTimestamp(raw)
			require.NoError(t, err)
			assert.Equal(t, 2024, ts.Year())
			assert.Equal(t, 30, ts.Minute())
		})
	}
}

func TestParseNegativeRevenueIgnored(t *testing.T) {
	p := NewParser()

	ev, ok := p.Parse(map[string]string{
		ColEventID:   "evt-3",
		ColEventName: "Order Completed",
		ColTimestamp: "2024-03-15T10:30:00Z",
		ColRevenue:   "-45.00",
	})

	require.True(t, ok)
	assert.Zero(t, ev.Revenue)
}

func TestCategorizePrecedence(t *testing.T) {
	cases := []struct {
		eventName string
		want      domain.EventCategory
	}{
		{"Order Completed", domain.CategoryEcommerce},
		{"Cart Updated", domain.CategoryEcommerce},
		{"Checkout Started", domain.CategoryEcommerce},
		{"Vet Appointment Booked", domain.CategoryVetCare},
		{"Prescription Ordered", domain.CategoryEcommerce}, // "order" wins over "prescription"
		{"Medication Refill Viewed", domain.CategoryVetCare},
		{"Product Viewed", domain.CategoryProduct},
		{"Review Submitted", domain.CategoryProduct},
		{"Login Attempted", domain.CategoryAccount},
		{"Profile Updated", domain.CategoryAccount},
		{"Goal Reached", domain.CategoryConversion},
		{"Form Submitted", domain.CategoryConversion},
		{"Search Performed", domain.CategoryEngagement},
		{"Video Watched", domain.CategoryEngagement},
		{"Page Viewed", domain.CategoryNavigation},
		{"Button Clicked", domain.CategoryNavigation},
	}

	for _, tc := range cases {
		t.Run(tc.eventName, func(t *testing.T) {
			assert.Equal(t, tc.want, Categorize(tc.eventName))
		})
	}
}
