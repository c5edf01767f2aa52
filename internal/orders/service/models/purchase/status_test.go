package purchase

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"pending to paid", StatusPendingPayment, StatusPaid, true},
		{"paid to shipped", StatusPaid, StatusShipped, true},
		{"pending to shipped skips payment", StatusPendingPayment, StatusShipped, false},
		{"shipped is terminal", StatusShipped, StatusPaid, false},
		{"no backward transition", StatusPaid, StatusPendingPayment, false},
		{"unknown status", Status("Cancelled"), StatusPaid, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}
