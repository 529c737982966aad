package entity

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notification struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	UserID    uuid.UUID          `bson:"user_id" json:"userId"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Type      string             `bson:"type" json:"type"` // proposal, proposal_status, moderation
	RelatedID uuid.UUID          `bson:"related_id" json:"relatedId"`
	IsRead    bool               `bson:"is_read" json:"isRead"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// StatusHistory is an audit record of a moderation decision or a proposal
// status flip. Written best-effort; never a source of truth.
type StatusHistory struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	RelatedID   string             `bson:"related_id" json:"relatedId"`
	RelatedType string             `bson:"related_type" json:"relatedType"` // item, proposal
	OldStatus   string             `bson:"old_status" json:"oldStatus"`
	NewStatus   string             `bson:"new_status" json:"newStatus"`
	ChangedBy   string             `bson:"changed_by" json:"changedBy"`
	Timestamp   time.Time          `bson:"timestamp" json:"timestamp"`
}
