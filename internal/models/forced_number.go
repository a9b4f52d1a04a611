package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ForcedNumberDirective is an operator-authored outcome pre-committed for a
// specific future draw. At most one unconsumed directive may exist per target
// draw number. Once consumed it is immutable and never deleted (audit trail).
type ForcedNumberDirective struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TargetDrawNumber int64              `bson:"targetDrawNumber" json:"targetDrawNumber"`
	ForcedNumber     int                `bson:"forcedNumber" json:"forcedNumber"`
	Source           string             `bson:"source" json:"source"`
	Reason           string             `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedBy        string             `bson:"createdBy" json:"createdBy"`
	Consumed         bool               `bson:"consumed" json:"consumed"`
	ConsumedAt       time.Time          `bson:"consumedAt,omitempty" json:"consumedAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}
