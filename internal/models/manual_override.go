package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ManualOverride is an operator-chosen outcome for the currently open cycle.
// It is honored only while the engine mode is MANUAL at resolution time, and
// is cleared when the cycle resolves or automatic mode is re-enabled.
type ManualOverride struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawNumber int64              `bson:"drawNumber" json:"drawNumber"`
	Number     int                `bson:"number" json:"number"`
	SetBy      string             `bson:"setBy" json:"setBy"`
	SetAt      time.Time          `bson:"setAt" json:"setAt"`
}
