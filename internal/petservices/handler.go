package petservices

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pethub-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the pet services service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterPublicRoutes attaches the read-only listing route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/services", h.list)
}

// RegisterRoutes attaches the authenticated write routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/services", h.add)
}

type addRequest struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
	Rating  float64 `json:"rating"`
	Contact string  `json:"contact"`
}

func (h *Handler) add(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	svc, err := h.Svc.Add(c.Request.Context(), PetService{
		Name:    req.Name,
		Lat:     req.Lat,
		Lng:     req.Lng,
		Address: req.Address,
		Rating:  req.Rating,
		Contact: req.Contact,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "name is required and coordinates must be valid", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to add service", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, svc)
}

func (h *Handler) list(c *gin.Context) {
	services, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list services", nil)
		return
	}
	if services == nil {
		services = []PetService{}
	}
	respond.JSON(c, http.StatusOK, services)
}
