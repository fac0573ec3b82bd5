package dto

// AvailabilityResponse represents the sellable state of a trait
type AvailabilityResponse struct {
	TraitID            string `json:"trait_id"`
	Available          bool   `json:"available"`
	Unlimited          bool   `json:"unlimited"`
	Remaining          int    `json:"remaining"`
	ActiveReservations int64  `json:"active_reservations"`
	PendingPurchases   int64  `json:"pending_purchases"`
}
