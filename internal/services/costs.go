package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	domain "github.com/docfield/api/internal/domain"
)

// ErrInvalidCostAmount signals a cost string that is not a whole number of
// minor currency units.
var ErrInvalidCostAmount = errors.New("costs: invalid amount")

// CalculateTotalItemCost sums an item's calculated costs and postage in minor
// currency units. An item without cost entries contributes zero.
func CalculateTotalItemCost(item domain.Item) (int, error) {
	total := 0
	for _, cost := range item.ItemCosts {
		amount, err := parseCostAmount(cost.CalculatedCost)
		if err != nil {
			return 0, fmt.Errorf("item %s: %w", item.ID, err)
		}
		total += amount
	}

	postage, err := parseCostAmount(item.PostageCost)
	if err != nil {
		return 0, fmt.Errorf("item %s postage: %w", item.ID, err)
	}
	return total + postage, nil
}

// CalculateTotalOrderCost sums the item totals across all items and returns
// the order total as a decimal string of minor currency units.
func CalculateTotalOrderCost(items []domain.Item) (string, error) {
	total := 0
	for _, item := range items {
		itemTotal, err := CalculateTotalItemCost(item)
		if err != nil {
			return "", err
		}
		total += itemTotal
	}
	return strconv.Itoa(total), nil
}

func parseCostAmount(value string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	amount, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCostAmount, value)
	}
	return amount, nil
}
