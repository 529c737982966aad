package entity

import (
	"time"

	"github.com/google/uuid"
)

// Moderation states an item moves through. Every listing starts pending and
// only an admin decision moves it to approved or rejected.
const (
	ModerationPending  = "pending"
	ModerationApproved = "approved"
	ModerationRejected = "rejected"
)

type Item struct {
	ID              uuid.UUID `json:"id"`
	OwnerID         uuid.UUID `json:"ownerId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	Type            string    `json:"type"`
	Size            string    `json:"size"`
	Condition       string    `json:"condition"`
	Tags            []string  `json:"tags"`
	Images          []string  `json:"images"`
	PointValue      int       `json:"pointValue"`
	ModerationState string    `json:"moderationState"`
	IsAvailable     bool      `json:"isAvailable"`
	Location        string    `json:"location,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Negotiable reports whether the item may be the subject of a new proposal.
// IsAvailable is never true for an item that is not approved.
func (i *Item) Negotiable() bool {
	return i.ModerationState == ModerationApproved && i.IsAvailable
}

type CreateItemInput struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Size        string   `json:"size" binding:"required"`
	Condition   string   `json:"condition" binding:"required,oneof=new like-new good fair worn"`
	Tags        []string `json:"tags"`
	Images      []string `json:"images"`
	PointValue  int      `json:"pointValue" binding:"min=0"`
	Location    string   `json:"location"`
}

type ItemFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}
