package repository

import (
	"context"

	"dypcet/linuxsaga-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrInsertFailed = RepositoryError("insert failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// RegistrationRepository defines the interface for persisting and
// reading workshop registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *domain.Registration) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Registration, error)
	CountAll(ctx context.Context) (int64, error)
}
