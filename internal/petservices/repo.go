package petservices

import "context"

// Repo persists pet service listings.
type Repo interface {
	Create(ctx context.Context, svc PetService) error
	List(ctx context.Context) ([]PetService, error)
}
