package purchase

import "time"

// Purchase represents one buy of a catalog book.
type Purchase struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	BookID     int64     `json:"book_id"`
	Quantity   int       `json:"quantity"`
	TotalPrice float64   `json:"total_price"`
	Status     Status    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
