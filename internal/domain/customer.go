package domain

import (
	"context"
	"time"
)

// Customer is a pet owner tracked in the graph.
type Customer struct {
	CustomerID string `json:"customer_id"`
	Username   string `json:"username,omitempty"`
	PetCount   int    `json:"pet_count"`
}

// Pet is an individual animal owned by a customer.
type Pet struct {
	Name        string     `json:"name"`
	Species     string     `json:"species,omitempty"`
	Breed       string     `json:"breed,omitempty"`
	BirthDate   *time.Time `json:"birth_date,omitempty"`
	WeightKg    float64    `json:"weight_kg,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Color       string     `json:"color,omitempty"`
	MicrochipID string     `json:"microchip_id,omitempty"`
}

// VetVisit is a medical visit for a pet.
type VetVisit struct {
	Date         *time.Time `json:"date,omitempty"`
	Reason       string     `json:"reason,omitempty"`
	Diagnosis    string     `json:"diagnosis,omitempty"`
	Treatment    string     `json:"treatment,omitempty"`
	FollowUpDate *time.Time `json:"follow_up_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	VetName      string     `json:"vet_name,omitempty"`
	Clinic       string     `json:"clinic,omitempty"`
}

// Medication is a prescribed treatment for a pet.
type Medication struct {
	Name         string     `json:"medication_name"`
	Dosage       string     `json:"dosage,omitempty"`
	Frequency    string     `json:"frequency,omitempty"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	DurationDays int        `json:"duration_days,omitempty"`
	Reason       string     `json:"reason,omitempty"`
}

// MedicalHistory bundles a pet's visits and medications.
type MedicalHistory struct {
	PetName     string       `json:"pet_name"`
	Visits      []VetVisit   `json:"visits,omitempty"`
	Medications []Medication `json:"medications,omitempty"`
}

// ProductInteraction is one purchase, review or other product touchpoint.
type ProductInteraction struct {
	Date            *time.Time `json:"date,omitempty"`
	InteractionType string     `json:"interaction_type,omitempty"`
	Quantity        int        `json:"quantity,omitempty"`
	Rating          float64    `json:"rating,omitempty"`
	ProductName     string     `json:"product_name,omitempty"`
	Brand           string     `json:"brand,omitempty"`
	Category        string     `json:"category,omitempty"`
}

// CustomerRepository reads customer, pet and order entities from the graph.
type CustomerRepository interface {
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)
	ListPets(ctx context.Context, customerID string) ([]Pet, error)
	GetMedicalHistory(ctx context.Context, customerID, petName string) (*MedicalHistory, error)
	ListProductInteractions(ctx context.Context, customerID string, limit int) ([]ProductInteraction, error)
}

// GraphQuerier runs an arbitrary read query against the graph store.
// Callers are responsible for rejecting write clauses before invoking it.
type GraphQuerier interface {
	ReadQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
