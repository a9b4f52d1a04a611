package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrawResult is one entry in the append-only history of resolved draws,
// feeding statistics and the roll-history display.
type DrawResult struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DrawNumber    int64              `bson:"drawNumber" json:"drawNumber"`
	WinningNumber int                `bson:"winningNumber" json:"winningNumber"`
	WinningColor  string             `bson:"winningColor" json:"winningColor"`
	Source        ResolutionSource   `bson:"source" json:"source"`
	ResolvedAt    time.Time          `bson:"resolvedAt" json:"resolvedAt"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}

// UpcomingDraw is a projected future draw shown on the public display.
type UpcomingDraw struct {
	DrawNumber  int64     `json:"drawNumber"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

// CurrentDrawInfo is the combined snapshot served to operator consoles and
// public displays. RemainingSeconds is always recomputed from the cycle's
// absolute end timestamp, never carried as independent state.
type CurrentDrawInfo struct {
	DrawNumber        int64         `json:"drawNumber"`
	Status            DrawStatus    `json:"status"`
	RemainingSeconds  int64         `json:"remainingSeconds"`
	Mode              Mode          `json:"mode"`
	Synced            bool          `json:"synced"`
	LastWinningNumber *int          `json:"lastWinningNumber"`
	LastWinningColor  string        `json:"lastWinningColor,omitempty"`
	RecentResults     []*DrawResult `json:"recentResults"`
	UpcomingDraws     []UpcomingDraw `json:"upcomingDraws"`
}
