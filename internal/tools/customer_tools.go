package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/calbyte/sessiongraph/internal/domain"
)

// CustomerInfoTool fetches one customer's profile.
type CustomerInfoTool struct {
	customers domain.CustomerRepository
}

func NewCustomerInfoTool(customers domain.CustomerRepository) *CustomerInfoTool {
	return &CustomerInfoTool{customers: customers}
}

func (t *CustomerInfoTool) Schema() Schema {
	return Schema{
		Name:        "get_customer_info",
		Description: "Get a customer's profile and how many pets they own",
		InputSchema: objectSchema([]string{"customer_id"}, map[string]any{
			"customer_id": map[string]any{"type": "string"},
		}),
	}
}

func (t *CustomerInfoTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		CustomerID string `json:"customer_id"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.CustomerID == "" {
		return nil, fmt.Errorf("customer_id is required")
	}

	customer, err := t.customers.GetCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, fmt.Errorf("customer %q not found", in.CustomerID)
	}
	return customer, nil
}

// CustomerPetsTool lists a customer's pets.
type CustomerPetsTool struct {
	customers domain.CustomerRepository
}

func NewCustomerPetsTool(customers domain.CustomerRepository) *CustomerPetsTool {
	return &CustomerPetsTool{customers: customers}
}

func (t *CustomerPetsTool) Schema() Schema {
	return Schema{
		Name:        "get_customer_pets",
		Description: "List the pets owned by a customer",
		InputSchema: objectSchema([]string{"customer_id"}, map[string]any{
			"customer_id": map[string]any{"type": "string"},
		}),
	}
}

func (t *CustomerPetsTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		CustomerID string `json:"customer_id"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.CustomerID == "" {
		return nil, fmt.Errorf("customer_id is required")
	}

	pets, err := t.customers.ListPets(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"customer_id": in.CustomerID,
		"pet_count":   len(pets),
		"pets":        pets,
	}, nil
}

// PetMedicalHistoryTool returns one pet's vet visits and medications.
type PetMedicalHistoryTool struct {
	customers domain.CustomerRepository
}

func NewPetMedicalHistoryTool(customers domain.CustomerRepository) *PetMedicalHistoryTool {
	return &PetMedicalHistoryTool{customers: customers}
}

func (t *PetMedicalHistoryTool) Schema() Schema {
	return Schema{
		Name:        "get_pet_medical_history",
		Description: "Get a pet's vet visits and medications; the pet must belong to the customer",
		InputSchema: objectSchema([]string{"customer_id", "pet_name"}, map[string]any{
			"customer_id": map[string]any{"type": "string"},
			"pet_name":    map[string]any{"type": "string"},
		}),
	}
}

func (t *PetMedicalHistoryTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		CustomerID string `json:"customer_id"`
		PetName    string `json:"pet_name"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.CustomerID == "" || in.PetName == "" {
		return nil, fmt.Errorf("customer_id and pet_name are required")
	}

	return t.customers.GetMedicalHistory(ctx, in.CustomerID, in.PetName)
}

// CustomerOrdersTool lists a customer's product interactions.
type CustomerOrdersTool struct {
	customers domain.CustomerRepository
}

func NewCustomerOrdersTool(customers domain.CustomerRepository) *CustomerOrdersTool {
	return &CustomerOrdersTool{customers: customers}
}

func (t *CustomerOrdersTool) Schema() Schema {
	return Schema{
		Name:        "get_customer_orders",
		Description: "List a customer's product purchases, reviews and other interactions, newest first",
		InputSchema: objectSchema([]string{"customer_id"}, map[string]any{
			"customer_id": map[string]any{"type": "string"},
			"limit":       map[string]any{"type": "integer"},
		}),
	}
}

func (t *CustomerOrdersTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		CustomerID string `json:"customer_id"`
		Limit      int    `json:"limit"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.CustomerID == "" {
		return nil, fmt.Errorf("customer_id is required")
	}

	interactions, err := t.customers.ListProductInteractions(ctx, in.CustomerID, in.Limit)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"customer_id":  in.CustomerID,
		"interactions": interactions,
	}, nil
}
