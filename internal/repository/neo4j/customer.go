package neo4j

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"github.com/calbyte/sessiongraph/internal/domain"
)

// CustomerRepository reads customer, pet and order entities from the
// graph. It only ever issues read transactions.
type CustomerRepository struct {
	db *DB
}

// NewCustomerRepository creates a customer repository
func NewCustomerRepository(db *DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetCustomer fetches a customer with their pet count, or nil when the
// customer is unknown.
func (r *CustomerRepository) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `
		MATCH (c:Customer {customer_id: $customer_id})
		OPTIONAL MATCH (c)-[:OWNS]->(p:Pet)
		RETURN c, count(p) AS pet_count`

	rows, err := r.db.read(ctx, query, map[string]any{"customer_id": customerID})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	props, ok := nodeProps(rows[0]["c"])
	if !ok {
		return nil, nil
	}

	customer := &domain.Customer{CustomerID: customerID}
	if v, ok := props["username"].(string); ok {
		customer.Username = v
	}
	if v, ok := rows[0]["pet_count"].(int64); ok {
		customer.PetCount = int(v)
	}
	return customer, nil
}

// ListPets returns a customer's pets.
func (r *CustomerRepository) ListPets(ctx context.Context, customerID string) ([]domain.Pet, error) {
	query := `
		MATCH (:Customer {customer_id: $customer_id})-[:OWNS]->(p:Pet)
		RETURN p
		ORDER BY p.name`

	rows, err := r.db.read(ctx, query, map[string]any{"customer_id": customerID})
	if err != nil {
		return nil, err
	}

	pets := make([]domain.Pet, 0, len(rows))
	for _, row := range rows {
		props, ok := nodeProps(row["p"])
		if !ok {
			continue
		}
		pets = append(pets, petFromProps(props))
	}
	return pets, nil
}

// GetMedicalHistory returns a pet's vet visits and medications. The pet
// must belong to the customer; an unknown pair yields an error so the
// caller can distinguish it from an empty history.
func (r *CustomerRepository) GetMedicalHistory(ctx context.Context, customerID, petName string) (*domain.MedicalHistory, error) {
	petQuery := `
		MATCH (:Customer {customer_id: $customer_id})-[:OWNS]->(p:Pet {name: $pet_name})
		RETURN p LIMIT 1`

	rows, err := r.db.read(ctx, petQuery, map[string]any{
		"customer_id": customerID,
		"pet_name":    petName,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("pet %q not found for customer %s", petName, customerID)
	}

	history := &domain.MedicalHistory{PetName: petName}

	visitQuery := `
		MATCH (:Customer {customer_id: $customer_id})-[:OWNS]->(:Pet {name: $pet_name})-[:HAS_VISIT]->(v:VetVisit)
		OPTIONAL MATCH (v)-[:WITH_VET]->(vet:Vet)
		RETURN v, vet
		ORDER BY v.date DESC`

	visitRows, err := r.db.read(ctx, visitQuery, map[string]any{
		"customer_id": customerID,
		"pet_name":    petName,
	})
	if err != nil {
		return nil, err
	}
	for _, row := range visitRows {
		props, ok := nodeProps(row["v"])
		if !ok {
			continue
		}
		visit := visitFromProps(props)
		if vetProps, ok := nodeProps(row["vet"]); ok {
			visit.VetName, _ = vetProps["name"].(string)
			visit.Clinic, _ = vetProps["clinic"].(string)
		}
		history.Visits = append(history.Visits, visit)
	}

	medQuery := `
		MATCH (:Customer {customer_id: $customer_id})-[:OWNS]->(:Pet {name: $pet_name})-[:HAS_MEDICATION]->(m:Medication)
		RETURN m
		ORDER BY m.start_date DESC`

	medRows, err := r.db.read(ctx, medQuery, map[string]any{
		"customer_id": customerID,
		"pet_name":    petName,
	})
	if err != nil {
		return nil, err
	}
	for _, row := range medRows {
		props, ok := nodeProps(row["m"])
		if !ok {
			continue
		}
		history.Medications = append(history.Medications, medicationFromProps(props))
	}

	return history, nil
}

// ListProductInteractions returns a customer's purchases, reviews and
// other product touchpoints, newest first.
func (r *CustomerRepository) ListProductInteractions(ctx context.Context, customerID string, limit int) ([]domain.ProductInteraction, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		MATCH (:Customer {customer_id: $customer_id})-[i:INTERACTED_WITH]->(prod:Product)
		RETURN i, prod
		ORDER BY i.date DESC
		LIMIT $limit`

	rows, err := r.db.read(ctx, query, map[string]any{
		"customer_id": customerID,
		"limit":       int64(limit),
	})
	if err != nil {
		return nil, err
	}

	interactions := make([]domain.ProductInteraction, 0, len(rows))
	for _, row := range rows {
		var interaction domain.ProductInteraction
		if rel, ok := row["i"].(neo4j.Relationship); ok {
			interaction = interactionFromProps(rel.Props)
		} else if props, ok := nodeProps(row["i"]); ok {
			interaction = interactionFromProps(props)
		}
		if props, ok := nodeProps(row["prod"]); ok {
			interaction.ProductName, _ = props["name"].(string)
			interaction.Brand, _ = props["brand"].(string)
			interaction.Category, _ = props["category"].(string)
		}
		interactions = append(interactions, interaction)
	}
	return interactions, nil
}

func petFromProps(props map[string]any) domain.Pet {
	pet := domain.Pet{}
	pet.Name, _ = props["name"].(string)
	pet.Species, _ = props["species"].(string)
	pet.Breed, _ = props["breed"].(string)
	pet.Gender, _ = props["gender"].(string)
	pet.Color, _ = props["color"].(string)
	pet.MicrochipID, _ = props["microchip_id"].(string)
	if v, ok := props["weight_kg"].(float64); ok {
		pet.WeightKg = v
	}
	pet.BirthDate = timeProp(props["birth_date"])
	return pet
}

func visitFromProps(props map[string]any) domain.VetVisit {
	visit := domain.VetVisit{}
	visit.Reason, _ = props["reason"].(string)
	visit.Diagnosis, _ = props["diagnosis"].(string)
	visit.Treatment, _ = props["treatment"].(string)
	visit.Notes, _ = props["notes"].(string)
	visit.Date = timeProp(props["date"])
	visit.FollowUpDate = timeProp(props["follow_up_date"])
	return visit
}

func medicationFromProps(props map[string]any) domain.Medication {
	med := domain.Medication{}
	med.Name, _ = props["medication_name"].(string)
	med.Dosage, _ = props["dosage"].(string)
	med.Frequency, _ = props["frequency"].(string)
	med.Reason, _ = props["reason"].(string)
	if v, ok := props["duration_days"].(int64); ok {
		med.DurationDays = int(v)
	}
	med.StartDate = timeProp(props["start_date"])
	return med
}

func interactionFromProps(props map[string]any) domain.ProductInteraction {
	interaction := domain.ProductInteraction{}
	interaction.InteractionType, _ = props["interaction_type"].(string)
	if v, ok := props["quantity"].(int64); ok {
		interaction.Quantity = int(v)
	}
	if v, ok := props["rating"].(float64); ok {
		interaction.Rating = v
	}
	interaction.Date = timeProp(props["date"])
	return interaction
}

// timeProp normalizes the driver's date and datetime shapes, plus plain
// ISO strings, to *time.Time.
func timeProp(v any) *time.Time {
	switch t := v.(type) {
	case time.Time:
		return &t
	case dbtype.Date:
		tt := t.Time()
		return &tt
	case dbtype.LocalDateTime:
		tt := t.Time()
		return &tt
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return &parsed
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return &parsed
		}
	}
	return nil
}
