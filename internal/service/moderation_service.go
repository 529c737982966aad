package service

import (
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	mongorepo "github.com/codedpool/ReWear-Odoo/internal/repository/mongodb"
	repo "github.com/codedpool/ReWear-Odoo/internal/repository/postgresql"
)

// ModerationService is the gate every listing passes before it becomes
// negotiable. Route middleware restricts it to admin identities.
type ModerationService struct {
	itemRepo repo.ItemRepository
	logRepo  mongorepo.LogRepository
}

func NewModerationService(itemRepo repo.ItemRepository, logRepo mongorepo.LogRepository) *ModerationService {
	return &ModerationService{itemRepo: itemRepo, logRepo: logRepo}
}

func (s *ModerationService) ListPending() ([]entity.Item, error) {
	return s.itemRepo.ListPendingModeration()
}

// Approve moves a pending item into the public pool.
func (s *ModerationService) Approve(adminID, itemID uuid.UUID) (*entity.Item, error) {
	return s.decide(adminID, itemID, entity.ModerationApproved)
}

// Reject keeps the item out of the pool permanently; a rejected item can
// never be negotiated.
func (s *ModerationService) Reject(adminID, itemID uuid.UUID) (*entity.Item, error) {
	return s.decide(adminID, itemID, entity.ModerationRejected)
}

func (s *ModerationService) decide(adminID, itemID uuid.UUID, state string) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.ModerationState != entity.ModerationPending {
		return nil, ErrAlreadyModerated
	}

	applied, err := s.itemRepo.SetModeration(itemID, state)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Lost a race with another decision or a removal.
		current, err := s.itemRepo.GetByID(itemID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrItemNotFound
		}
		return nil, ErrAlreadyModerated
	}

	s.recordDecision(itemID, item.ModerationState, state, adminID)

	item.ModerationState = state
	item.IsAvailable = state == entity.ModerationApproved
	item.UpdatedAt = time.Now()
	return item, nil
}

// Remove hard-deletes an item. Every pending proposal referencing it, as
// target or as offered item, is rejected in the same transaction.
func (s *ModerationService) Remove(adminID, itemID uuid.UUID) error {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}

	removed, err := s.itemRepo.RemoveCascade(itemID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrItemNotFound
	}

	s.recordDecision(itemID, item.ModerationState, "removed", adminID)
	return nil
}

func (s *ModerationService) recordDecision(itemID uuid.UUID, oldState, newState string, adminID uuid.UUID) {
	history := &entity.StatusHistory{
		ID:          primitive.NewObjectID(),
		RelatedID:   itemID.String(),
		RelatedType: "item",
		OldStatus:   oldState,
		NewStatus:   newState,
		ChangedBy:   adminID.String(),
		Timestamp:   time.Now(),
	}
	if err := s.logRepo.SaveStatusHistory(history); err != nil {
		log.Printf("Warning: failed to save moderation history for item %s: %v", itemID, err)
	}
}
