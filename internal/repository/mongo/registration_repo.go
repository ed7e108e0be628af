package mongo

import (
	"context"
	"errors"
	"time"

	"dypcet/linuxsaga-backend/internal/domain"
	"dypcet/linuxsaga-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const registrationCollectionName = "registrations"

// mongoRegistrationRepository implements repository.RegistrationRepository
type mongoRegistrationRepository struct {
	collection *mongo.Collection
}

// NewMongoRegistrationRepository creates a new Registration repository
// backed by MongoDB.
func NewMongoRegistrationRepository(db *mongo.Database) repository.RegistrationRepository {
	return &mongoRegistrationRepository{
		collection: db.Collection(registrationCollectionName),
	}
}

// Create inserts one registration document. CreatedAt is assigned here,
// at insert time, unless the caller already set it.
func (r *mongoRegistrationRepository) Create(ctx context.Context, reg *domain.Registration) (primitive.ObjectID, error) {
	if reg.PaymentScreenshot == "" {
		return primitive.NilObjectID, errors.New("registration requires a paymentScreenshot URL")
	}

	reg.ID = primitive.NewObjectID()
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, reg)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves one registration by its ID.
func (r *mongoRegistrationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Registration, error) {
	var reg domain.Registration
	filter := bson.M{"_id": id}

	err := r.collection.FindOne(ctx, filter).Decode(&reg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &reg, nil
}

// CountAll returns the total number of registrations.
func (r *mongoRegistrationRepository) CountAll(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsureRegistrationIndexes creates indexes for the registrations
// collection. No uniqueness is enforced on email or phone: duplicate
// sign-ups are allowed.
func EnsureRegistrationIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Registrations are listed newest-first by the organizers.
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
