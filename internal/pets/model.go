package pets

import (
	"time"

	"pethub-backend/internal/assets"
)

type Pet struct {
	ID                 string              `json:"id"`
	OwnerID            string              `json:"ownerId"`
	Name               string              `json:"name"`
	Age                int                 `json:"age"`
	Breed              string              `json:"breed"`
	ProfileImage       assets.Ref          `json:"profileImage"`
	WeightTrend        []WeightRecord      `json:"weightTrend"`
	VaccinationHistory []VaccinationRecord `json:"vaccinationHistory"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

type WeightRecord struct {
	ID     string    `json:"id"`
	Weight float64   `json:"weight"`
	Date   time.Time `json:"date"`
}

type VaccinationRecord struct {
	ID      string    `json:"id"`
	Vaccine string    `json:"vaccine"`
	Date    time.Time `json:"date"`
}
