package domain

// DeliveryPricing is a named flat delivery fee.
type DeliveryPricing struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

const DeliveryPricingCustomID = "custom"

func DefaultDeliveryPricing() []DeliveryPricing {
	return []DeliveryPricing{
		{ID: "standard", Name: "Jasa Antar", Price: 25000},
		{ID: "far", Name: "Jasa Antar Luar Kota", Price: 35000},
		{ID: DeliveryPricingCustomID, Name: "Custom", Price: 0},
	}
}
