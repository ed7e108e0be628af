package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Experience is the self-declared skill level of a registrant.
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
)

// MaxPaymentProofSize is the hard cap on the payment screenshot,
// inclusive: a file of exactly this size is accepted.
const MaxPaymentProofSize = 5 << 20 // 5 MiB

// Registration is one completed workshop sign-up. The payment
// screenshot itself lives in object storage; only its durable URL is
// persisted here. Duplicate email/phone values are allowed.
type Registration struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName          string             `bson:"fullName" json:"fullName"`
	Email             string             `bson:"email" json:"email"`
	Phone             string             `bson:"phone" json:"phone"`
	College           string             `bson:"college" json:"college"`
	Experience        Experience         `bson:"experience" json:"experience"`
	PaymentScreenshot string             `bson:"paymentScreenshot" json:"paymentScreenshot"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// Submission carries the validated textual form fields through the
// pipeline, before a payment-screenshot URL exists.
type Submission struct {
	FullName   string
	Email      string
	Phone      string
	College    string
	Experience Experience
}
