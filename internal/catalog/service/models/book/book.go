package book

import "time"

// Book represents a catalog entry.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	SellerID    int64     `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
}
