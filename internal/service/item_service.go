package service

import (
	"time"

	"github.com/google/uuid"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	repo "github.com/codedpool/ReWear-Odoo/internal/repository/postgresql"
)

type ItemService struct {
	itemRepo repo.ItemRepository
}

func NewItemService(itemRepo repo.ItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// CreateItem lists a new garment. It starts in the moderation queue and is
// kept out of the public pool until an admin approves it.
func (s *ItemService) CreateItem(ownerID uuid.UUID, input entity.CreateItemInput) (*entity.Item, error) {
	if input.PointValue < 0 {
		return nil, ErrInvalidAmount
	}

	item := &entity.Item{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		Type:            input.Type,
		Size:            input.Size,
		Condition:       input.Condition,
		Tags:            input.Tags,
		Images:          input.Images,
		PointValue:      input.PointValue,
		ModerationState: entity.ModerationPending,
		IsAvailable:     false,
		Location:        input.Location,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := s.itemRepo.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetItem returns an item to a viewer. Unapproved items are visible only to
// their owner and to admins; everyone else sees a not-found.
func (s *ItemService) GetItem(viewerID uuid.UUID, isAdmin bool, itemID uuid.UUID) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.ModerationState != entity.ModerationApproved && !isAdmin && item.OwnerID != viewerID {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// ListCatalog is the public browse view: approved, available items only.
// The snapshot is not locked; negotiation re-validates regardless.
func (s *ItemService) ListCatalog(filter entity.ItemFilter) ([]entity.Item, error) {
	return s.itemRepo.ListApproved(filter)
}

func (s *ItemService) ListMine(ownerID uuid.UUID) ([]entity.Item, error) {
	return s.itemRepo.ListByOwner(ownerID)
}

// Withdraw takes the owner's item out of the open pool.
func (s *ItemService) Withdraw(ownerID, itemID uuid.UUID) (*entity.Item, error) {
	return s.setAvailability(ownerID, itemID, false)
}

// Relist puts an approved item back into the open pool, typically after it
// changed hands in a settlement.
func (s *ItemService) Relist(ownerID, itemID uuid.UUID) (*entity.Item, error) {
	return s.setAvailability(ownerID, itemID, true)
}

func (s *ItemService) setAvailability(ownerID, itemID uuid.UUID, available bool) (*entity.Item, error) {
	item, err := s.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	if item.OwnerID != ownerID {
		return nil, ErrNotItemOwner
	}
	if item.ModerationState != entity.ModerationApproved {
		return nil, ErrItemNotApproved
	}

	applied, err := s.itemRepo.SetAvailability(itemID, ownerID, available)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, ErrNoStateChange
	}
	item.IsAvailable = available
	return item, nil
}
