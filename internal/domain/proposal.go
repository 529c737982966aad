package entity

import (
	"time"

	"github.com/google/uuid"
)

// Proposal kinds: item-for-item swap or point redemption.
const (
	KindSwap   = "swap"
	KindRedeem = "redeem"
)

// Proposal statuses. pending is the only non-terminal state.
const (
	ProposalPending   = "pending"
	ProposalAccepted  = "accepted"
	ProposalRejected  = "rejected"
	ProposalCancelled = "cancelled"
)

type SwapProposal struct {
	ID            uuid.UUID  `json:"id"`
	RequesterID   uuid.UUID  `json:"requesterId"`
	ItemID        uuid.UUID  `json:"itemId"`
	OfferedItemID *uuid.UUID `json:"offeredItemId,omitempty"`
	Kind          string     `json:"kind"`
	Message       string     `json:"message,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// Resolved reports whether the proposal has reached a terminal status.
func (p *SwapProposal) Resolved() bool {
	return p.Status != ProposalPending
}

type CreateProposalInput struct {
	ItemID        string `json:"itemId" binding:"required,uuid"`
	Kind          string `json:"kind" binding:"required,oneof=swap redeem"`
	OfferedItemID string `json:"offeredItemId" binding:"omitempty,uuid"`
	Message       string `json:"message"`
}

type ResolveProposalInput struct {
	Decision string `json:"decision" binding:"required,oneof=accept reject"`
}
