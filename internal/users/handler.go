package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pethub-backend/internal/assets"
	"pethub-backend/internal/profileimages"
	"pethub-backend/internal/shared/server/middleware"
	"pethub-backend/internal/shared/server/respond"
)

// multipart framing overhead on top of the image size cap
const maxUploadRequestBytes = profileimages.MaxImageBytes + (1 << 20)

// Handler wires HTTP handlers to the users service.
type Handler struct {
	Svc    *Service
	Images *profileimages.Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, images *profileimages.Service) *Handler {
	return &Handler{Svc: svc, Images: images}
}

// RegisterAuthRoutes attaches the public auth routes.
func (h *Handler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/register", h.register)
	rg.POST("/auth/login", h.login)
}

// RegisterRoutes attaches the authenticated user routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/profile", h.profile)
	rg.PUT("/users/profile", h.updateProfile)
	rg.POST("/users/profile-image", h.uploadImage)
	rg.DELETE("/users/profile-image", h.deleteImage)
	rg.GET("/users/image/:filename", h.image)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	_, token, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "validation_error", "email already in use", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "email and password are required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{"token": token})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid email or password", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to login", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"token": token})
}

func (h *Handler) profile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	user, err := h.Svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load user", nil)
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(user))
}

func (h *Handler) updateProfile(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var patch ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	user, err := h.Svc.UpdateProfile(c.Request.Context(), userID, patch)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		case errors.Is(err, ErrEmailTaken):
			respond.Error(c, http.StatusBadRequest, "validation_error", "email already in use", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid profile fields", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update profile", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"message": "Profile updated successfully",
		"user":    toResponse(user),
	})
}

func (h *Handler) uploadImage(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadRequestBytes)

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
		userID,
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

	if err := h.Images.Delete(c.Request.Context(), userID); err != nil {
		switch {
		case errors.Is(err, profileimages.ErrNoImage):
			respond.Error(c, http.StatusNotFound, "not_found", "no profile image to delete", nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete image", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"message": "Profile image deleted successfully"})
}

func respondImageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profileimages.ErrInvalidImage):
		respond.Error(c, http.StatusBadRequest, "validation_error", "file must be a jpeg, png, gif or webp image", nil)
	case errors.Is(err, assets.ErrTooLarge):
		respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "image exceeds the 5MB limit", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store image", nil)
	}
}

func toResponse(user User) gin.H {
	return gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"username":     user.Username,
		"profileImage": user.ProfileImage,
		"createdAt":    user.CreatedAt,
	}
}
