package book

import "time"

// Book is the denormalized mirror of a catalog entry kept for foreign-key
// linkage and seller-managed CRUD. Price and stock here are not authoritative
// at purchase time: the catalog service is.
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
