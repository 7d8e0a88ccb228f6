package petservices

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Add validates and stores a new listing.
func (s *Service) Add(ctx context.Context, svc PetService) (PetService, error) {
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		return PetService{}, ErrInvalidInput
	}
	if svc.Lat < -90 || svc.Lat > 90 || svc.Lng < -180 || svc.Lng > 180 {
		return PetService{}, ErrInvalidInput
	}
	if svc.Rating < 0 || svc.Rating > 5 {
		return PetService{}, ErrInvalidInput
	}

	svc.ID = uuid.NewString()
	if err := s.Repo.Create(ctx, svc); err != nil {
		return PetService{}, err
	}
	return svc, nil
}

// List returns every stored listing sorted by name.
func (s *Service) List(ctx context.Context) ([]PetService, error) {
	return s.Repo.List(ctx)
}
