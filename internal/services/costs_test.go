package services

import (
	"errors"
	"testing"

	domain "github.com/docfield/api/internal/domain"
)

func TestCalculateTotalOrderCost(t *testing.T) {
	cases := []struct {
		name  string
		items []domain.Item
		want  string
	}{
		{
			name: "single item with postage",
			items: []domain.Item{{
				ID:          "item-1",
				ItemCosts:   []domain.ItemCost{{CalculatedCost: "1500"}},
				PostageCost: "300",
			}},
			want: "1800",
		},
		{
			name: "multiple cost entries",
			items: []domain.Item{{
				ID: "item-1",
				ItemCosts: []domain.ItemCost{
					{CalculatedCost: "1000"},
					{CalculatedCost: "250"},
				},
				PostageCost: "0",
			}},
			want: "1250",
		},
		{
			name:  "empty cost list contributes zero",
			items: []domain.Item{{ID: "item-1"}},
			want:  "0",
		},
		{
			name: "multiple items",
			items: []domain.Item{
				{ID: "a", ItemCosts: []domain.ItemCost{{CalculatedCost: "50"}}},
				{ID: "b", ItemCosts: []domain.ItemCost{{CalculatedCost: "25"}}, PostageCost: "10"},
			},
			want: "85",
		},
		{
			name:  "no items",
			items: nil,
			want:  "0",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateTotalOrderCost(tc.items)
			if err != nil {
				t.Fatalf("CalculateTotalOrderCost: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestCalculateTotalOrderCostInvalidAmount(t *testing.T) {
	items := []domain.Item{{
		ID:        "item-1",
		ItemCosts: []domain.ItemCost{{CalculatedCost: "fifteen"}},
	}}

	_, err := CalculateTotalOrderCost(items)
	if !errors.Is(err, ErrInvalidCostAmount) {
		t.Fatalf("expected ErrInvalidCostAmount, got %v", err)
	}
}

func TestCalculateTotalItemCostInvalidPostage(t *testing.T) {
	item := domain.Item{
		ID:          "item-1",
		ItemCosts:   []domain.ItemCost{{CalculatedCost: "100"}},
		PostageCost: "free",
	}

	_, err := CalculateTotalItemCost(item)
	if !errors.Is(err, ErrInvalidCostAmount) {
		t.Fatalf("expected ErrInvalidCostAmount, got %v", err)
	}
}
