package pets

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pethub-backend/internal/assets"
	"pethub-backend/internal/breeds"
	"pethub-backend/internal/profileimages"
	"pethub-backend/internal/shared/server/middleware"
	"pethub-backend/internal/shared/server/respond"
)

// multipart framing overhead on top of the image size cap
const maxUploadRequestBytes = profileimages.MaxImageBytes + (1 << 20)

// BreedSource lists known breeds from an upstream catalog.
type BreedSource interface {
	List(ctx context.Context) ([]breeds.Breed, error)
}

// Handler wires HTTP handlers to the pets service.
type Handler struct {
	Svc    *Service
	Images *profileimages.Service
	Breeds BreedSource
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, images *profileimages.Service, source BreedSource) *Handler {
	return &Handler{Svc: svc, Images: images, Breeds: source}
}

// RegisterPublicRoutes attaches the routes that need no session.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/pets/breeds", h.listBreeds)
}

// RegisterRoutes attaches the authenticated pet routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/pets/create", h.create)
	rg.GET("/pets/user", h.listOwned)
	rg.GET("/pets/search", h.search)
	rg.GET("/pets/image/:filename", h.image)
	rg.GET("/pets/:id", h.get)
	rg.PUT("/pets/:id", h.update)
	rg.DELETE("/pets/:id", h.delete)
	rg.POST("/pets/:id/weight", h.addWeight)
	rg.DELETE("/pets/:id/weight/:recordId", h.deleteWeight)
	rg.POST("/pets/:id/vaccination", h.addVaccination)
	rg.DELETE("/pets/:id/vaccination/:recordId", h.deleteVaccination)
	rg.POST("/pets/:id/profile-image", h.uploadImage)
	rg.DELETE("/pets/:id/profile-image", h.deleteImage)
}

type createRequest struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Breed string `json:"breed"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	pet, err := h.Svc.Create(c.Request.Context(), userID, req.Name, req.Age, req.Breed)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "name is required and age must not be negative", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create pet", nil)
		return
	}

	c.Set("petId", pet.ID)
	respond.JSON(c, http.StatusCreated, pet)
}

func (h *Handler) listOwned(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	pets, err := h.Svc.ListOwned(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list pets", nil)
		return
	}
	if pets == nil {
		pets = []Pet{}
	}
	respond.JSON(c, http.StatusOK, pets)
}

func (h *Handler) search(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	pets, err := h.Svc.Search(c.Request.Context(), userID, c.Query("name"), c.Query("breed"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to search pets", nil)
		return
	}
	if pets == nil {
		pets = []Pet{}
	}
	respond.JSON(c, http.StatusOK, pets)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)

	pet, err := h.Svc.GetOwned(c.Request.Context(), userID, petID)
	if err != nil {
		respondPetError(c, err, "failed to load pet")
		return
	}
	respond.JSON(c, http.StatusOK, pet)
}

func (h *Handler) update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)

	var patch PetPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	pet, err := h.Svc.Update(c.Request.Context(), userID, petID, patch)
	if err != nil {
		respondPetError(c, err, "failed to update pet")
		return
	}
	respond.JSON(c, http.StatusOK, pet)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)

	if err := h.Svc.Delete(c.Request.Context(), userID, petID); err != nil {
		respondPetError(c, err, "failed to delete pet")
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "Pet deleted successfully"})
}

type weightRequest struct {
	Weight float64    `json:"weight"`
	Date   *time.Time `json:"date"`
}

func (h *Handler) addWeight(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)

	var req weightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	pet, err := h.Svc.AddWeight(c.Request.Context(), userID, petID, req.Weight, date)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "weight must be positive", nil)
			return
		}
		respondPetError(c, err, "failed to add weight record")
		return
	}
	respond.JSON(c, http.StatusOK, pet)
}

func (h *Handler) deleteWeight(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)

	pet, err := h.Svc.DeleteWeight(c.Request.Context(), userID, petID, c.Param("recordId"))
	if err != nil {
		respondPetError(c, err, "failed to delete weight record")
		return
	}
	respond.JSON(c, http.StatusOK, pet)
}

type vaccinationRequest struct {
	Vaccine string     `json:"vaccine"`
	Date    *time.Time `json:"date"`
}

func (h *Handler) addVaccination(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)

	var req vaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	var date time.Time
	if req.Date != nil {
		date = *req.Date
	}
	pet, err := h.Svc.AddVaccination(c.Request.Context(), userID, petID, req.Vaccine, date)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "vaccine name is required", nil)
			return
		}
		respondPetError(c, err, "failed to add vaccination record")
		return
	}
	respond.JSON(c, http.StatusOK, pet)
}

func (h *Handler) deleteVaccination(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)

	pet, err := h.Svc.DeleteVaccination(c.Request.Context(), userID, petID, c.Param("recordId"))
	if err != nil {
		respondPetError(c, err, "failed to delete vaccination record")
		return
	}
	respond.JSON(c, http.StatusOK, pet)
}

func (h *Handler) uploadImage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadRequestBytes)

	if _, err := h.Svc.GetOwned(c.Request.Context(), userID, petID); err != nil {
		respondPetError(c, err, "failed to load pet")
		return
	}

	fileHeader, err := c.FormFile("profileImage")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "profileImage file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	asset, err := h.Images.UploadOrReplace(
		c.Request.Context(),
		petID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		file,
	)
	if err != nil {
		respondImageError(c, err)
		return
	}

	c.Set("assetName", asset.FileName)
	respond.JSON(c, http.StatusOK, gin.H{
		"message":  "Profile image uploaded successfully",
		"filename": asset.FileName,
	})
}

func (h *Handler) image(c *gin.Context) {
	fileName := c.Param("filename")

	asset, rc, err := h.Images.Retrieve(c.Request.Context(), fileName)
	if err != nil {
		if errors.Is(err, assets.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "image not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read image", nil)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, asset.SizeBytes, asset.ContentType, rc, nil)
}

func (h *Handler) deleteImage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	petID := c.Param("id")
	c.Set("petId", petID)

	if _, err := h.Svc.GetOwned(c.Request.Context(), userID, petID); err != nil {
		respondPetError(c, err, "failed to load pet")
		return
	}

	if err := h.Images.Delete(c.Request.Context(), petID); err != nil {
		if errors.Is(err, profileimages.ErrNoImage) {
			respond.Error(c, http.StatusNotFound, "not_found", "no profile image to delete", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete image", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"message": "Profile image deleted successfully"})
}

func (h *Handler) listBreeds(c *gin.Context) {
	list, err := h.Breeds.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusBadGateway, "upstream_error", "breed catalogs are unavailable", nil)
		return
	}
	respond.JSON(c, http.StatusOK, list)
}

func respondPetError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "pet not found", nil)
	case errors.Is(err, ErrRecordNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "record not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "pet belongs to another user", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func respondImageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profileimages.ErrInvalidImage):
		respond.Error(c, http.StatusBadRequest, "validation_error", "file must be a jpeg, png, gif or webp image", nil)
	case errors.Is(err, assets.ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "image exceeds the 5MB limit", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "pet not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store image", nil)
	}
}
