package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path"
	"path/filepath"
	"strings"

	"dypcet/linuxsaga-backend/internal/domain"
	"dypcet/linuxsaga-backend/internal/repository"
	"dypcet/linuxsaga-backend/internal/storage"
	"dypcet/linuxsaga-backend/internal/upload"

	"github.com/google/uuid"
)

// --- Error Definitions ---
var (
	ErrMediaRelayFailed  = errors.New("failed to relay payment screenshot to media storage")
	ErrPersistenceFailed = errors.New("failed to persist registration")
)

// RegistrationService runs the server side of the registration
// pipeline: relay the transient payment screenshot to durable storage,
// then persist the registration document.
type RegistrationService interface {
	Register(ctx context.Context, sub domain.Submission, tu *upload.TransientUpload) (*domain.Registration, error)
}

// registrationService implements the RegistrationService interface.
type registrationService struct {
	registrationRepo repository.RegistrationRepository
	mediaStorage     storage.MediaStorage
	transientStore   *upload.Store
}

// NewRegistrationService creates a new instance of registrationService.
func NewRegistrationService(
	registrationRepo repository.RegistrationRepository,
	mediaStorage storage.MediaStorage,
	transientStore *upload.Store,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		mediaStorage:     mediaStorage,
		transientStore:   transientStore,
	}
}

// Register relays the transient file and inserts one registration
// document.
//
// The transient file is removed on every exit path of the relay step,
// success or failure; it never outlives this call. The media asset and
// the database document are NOT transactional: a persistence failure
// after a successful relay leaves an orphaned asset behind, and no
// compensating delete is attempted.
func (s *registrationService) Register(ctx context.Context, sub domain.Submission, tu *upload.TransientUpload) (*domain.Registration, error) {
	secureURL, err := s.relay(ctx, tu)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMediaRelayFailed, err)
	}

	reg := &domain.Registration{
		FullName:          sub.FullName,
		Email:             sub.Email,
		Phone:             sub.Phone,
		College:           sub.College,
		Experience:        sub.Experience,
		PaymentScreenshot: secureURL,
	}

	if _, err := s.registrationRepo.Create(ctx, reg); err != nil {
		log.Printf("ERROR: Registration insert failed after media upload, asset orphaned at %s: %v", secureURL, err)
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailed, err)
	}

	return reg, nil
}

// relay uploads the transient file and returns the durable URL,
// deleting the local file before returning regardless of outcome.
func (s *registrationService) relay(ctx context.Context, tu *upload.TransientUpload) (string, error) {
	defer func() {
		if err := s.transientStore.Remove(tu); err != nil {
			log.Printf("ERROR: Failed to remove transient file '%s': %v", tu.StoredPath, err)
		}
	}()

	objectKey := registrationObjectKey(tu.OriginalName)
	return s.mediaStorage.UploadFile(ctx, tu.StoredPath, objectKey, tu.ContentType)
}

// registrationObjectKey builds a unique object key for one payment
// screenshot, keeping the original extension.
func registrationObjectKey(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return path.Join("registrations", fmt.Sprintf("%s%s", uuid.NewString(), ext))
}
