package api

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"dypcet/linuxsaga-backend/internal/domain"
	"dypcet/linuxsaga-backend/internal/service"
	"dypcet/linuxsaga-backend/internal/upload"

	"github.com/gin-gonic/gin"
)

// User-facing response texts. The client never sees more detail than
// these for server-side failures.
const (
	msgFileRequired = "Payment screenshot required"
	msgFileTooLarge = "Payment screenshot must be 5 MB or smaller"
	msgSuccess      = "Registration successful"
	msgServerError  = "Server error"
	imageFormField  = "image"
	maxFormOverhead = 1 << 20 // non-file parts plus multipart framing
)

// RegistrationHandler holds the registration pipeline dependencies.
type RegistrationHandler struct {
	registrationService service.RegistrationService
	transientStore      *upload.Store
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrationService service.RegistrationService, transientStore *upload.Store) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		transientStore:      transientStore,
	}
}

// --- Request/Response Structs ---

// RegisterRequest is the explicit allow-list of textual form fields.
// Any other multipart part is ignored, never persisted.
type RegisterRequest struct {
	FullName   string `form:"fullName" binding:"required"`
	Email      string `form:"email" binding:"required,email"`
	Phone      string `form:"phone" binding:"required"`
	College    string `form:"college" binding:"required"`
	Experience string `form:"experience" binding:"required,oneof=beginner intermediate"`
}

// RegisterResponse is the envelope returned for every outcome of the
// registration endpoint.
type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// --- Handler Methods ---

// Register handles POST /register: multipart form with an "image" part
// (the payment screenshot, at most 5 MiB) plus the five textual fields.
func (h *RegistrationHandler) Register(c *gin.Context) {
	// Transport-level cap: an oversized body errors out while being
	// read, before the file part could be stored in full.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, domain.MaxPaymentProofSize+maxFormOverhead)

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		respondFailure(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	fileHeader, err := c.FormFile(imageFormField)
	if err != nil {
		respondFailure(c, http.StatusBadRequest, msgFileRequired)
		return
	}
	if fileHeader.Size > domain.MaxPaymentProofSize {
		respondFailure(c, http.StatusBadRequest, msgFileTooLarge)
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Printf("ERROR: Failed to open multipart file: %v", err)
		respondFailure(c, http.StatusInternalServerError, msgServerError)
		return
	}
	defer src.Close()

	tu, err := h.transientStore.Save(fileHeader.Filename, fileHeader.Header.Get("Content-Type"), src)
	if err != nil {
		if errors.Is(err, upload.ErrFileTooLarge) {
			respondFailure(c, http.StatusBadRequest, msgFileTooLarge)
			return
		}
		log.Printf("ERROR: Failed to store transient upload: %v", err)
		respondFailure(c, http.StatusInternalServerError, msgServerError)
		return
	}

	sub := domain.Submission{
		FullName:   req.FullName,
		Email:      req.Email,
		Phone:      req.Phone,
		College:    req.College,
		Experience: domain.Experience(req.Experience),
	}

	reg, err := h.registrationService.Register(c.Request.Context(), sub, tu)
	if err != nil {
		// Relay and persistence failures collapse to one generic
		// message; no internal detail crosses the wire.
		log.Printf("ERROR: Registration pipeline failed: %v", err)
		respondFailure(c, http.StatusInternalServerError, msgServerError)
		return
	}

	log.Printf("INFO: Registration %s created for %s", reg.ID.Hex(), reg.Email)
	c.JSON(http.StatusCreated, RegisterResponse{Success: true, Message: msgSuccess})
}

// Live handles GET /, the plain-text liveness probe.
func (h *RegistrationHandler) Live(c *gin.Context) {
	c.String(http.StatusOK, "LinuxSaga registration API is running")
}

// respondFailure writes the failure envelope and aborts the request.
func respondFailure(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, RegisterResponse{Success: false, Message: message})
}
