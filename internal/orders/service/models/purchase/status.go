package purchase

type Status string

// The purchase lifecycle is strictly linear: no cancellation, refund or
// backward transition exists.
const (
	StatusPendingPayment Status = "Pending Payment"
	StatusPaid           Status = "Paid"
	StatusShipped        Status = "Shipped"
)

var validNext = map[Status]map[Status]bool{
	StatusPendingPayment: {StatusPaid: true},
	StatusPaid:           {StatusShipped: true},
	StatusShipped:        {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
