package domain

import "testing"

func TestPaymentStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"pending to paid", PaymentStatusPending, PaymentStatusPaid, true},
		{"pending to in-progress", PaymentStatusPending, PaymentStatusInProgress, true},
		{"pending to no-funds", PaymentStatusPending, PaymentStatusNoFunds, true},
		{"in-progress to paid", PaymentStatusInProgress, PaymentStatusPaid, true},
		{"in-progress to expired", PaymentStatusInProgress, PaymentStatusExpired, true},
		{"paid to pending", PaymentStatusPaid, PaymentStatusPending, false},
		{"paid to failed", PaymentStatusPaid, PaymentStatusFailed, false},
		{"failed to paid", PaymentStatusFailed, PaymentStatusPaid, false},
		{"expired to in-progress", PaymentStatusExpired, PaymentStatusInProgress, false},
		{"same status", PaymentStatusPaid, PaymentStatusPaid, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
				t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}
