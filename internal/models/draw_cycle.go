package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawStatus represents the lifecycle state of a draw cycle
type DrawStatus string

const (
	DrawStatusOpen      DrawStatus = "OPEN"
	DrawStatusLocked    DrawStatus = "LOCKED"
	DrawStatusResolving DrawStatus = "RESOLVING"
	DrawStatusResolved  DrawStatus = "RESOLVED"
)

// ResolutionSource records which authority decided the winning number
type ResolutionSource string

const (
	ResolutionSourceForced    ResolutionSource = "FORCED"
	ResolutionSourceManual    ResolutionSource = "MANUAL"
	ResolutionSourceAutomatic ResolutionSource = "AUTOMATIC"
)

// DrawCycle represents one betting round culminating in a single winning-number
// resolution. Exactly one cycle is OPEN, LOCKED or RESOLVING at any time; the
// next cycle is created the instant its predecessor resolves.
type DrawCycle struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawNumber       int64              `bson:"drawNumber" json:"drawNumber"`
	Status           DrawStatus         `bson:"status" json:"status"`
	// ScheduledEndAt is the single source of truth for "when does this draw
	// resolve". Every consumer derives its countdown as ScheduledEndAt - now;
	// a relative counter is never stored.
	ScheduledEndAt   time.Time          `bson:"scheduledEndAt" json:"scheduledEndAt"`
	IntervalSeconds  int                `bson:"intervalSeconds" json:"intervalSeconds"`
	ResolutionSource ResolutionSource   `bson:"resolutionSource,omitempty" json:"resolutionSource,omitempty"`
	WinningNumber    *int               `bson:"winningNumber,omitempty" json:"winningNumber,omitempty"`
	ResolvedAt       time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Live reports whether the cycle is still in play (not yet RESOLVED).
func (c *DrawCycle) Live() bool {
	switch c.Status {
	case DrawStatusOpen, DrawStatusLocked, DrawStatusResolving:
		return true
	}
	return false
}

// LiveStatuses lists the statuses a cycle can hold before terminal resolution.
func LiveStatuses() []DrawStatus {
	return []DrawStatus{DrawStatusOpen, DrawStatusLocked, DrawStatusResolving}
}
