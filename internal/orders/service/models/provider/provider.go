package provider

// DeliveryProvider is static reference data seeded once at startup.
type DeliveryProvider struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	CoverageArea string  `json:"coverage_area"`
	Cost         float64 `json:"cost"`
}
