package petservices

import "time"

// PetService is a vet clinic, groomer or other nearby provider.
type PetService struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Address   string    `json:"address"`
	Rating    float64   `json:"rating"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"createdAt"`
}
