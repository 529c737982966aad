package service

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	mongorepo "github.com/codedpool/ReWear-Odoo/internal/repository/mongodb"
	repo "github.com/codedpool/ReWear-Odoo/internal/repository/postgresql"
)

// ExchangeService runs the negotiation protocol: proposals are created
// against a snapshot, and every precondition is re-checked under row locks
// when an acceptance settles. Acceptance is first-committer-wins; there is
// no FIFO ordering between competing proposals.
type ExchangeService struct {
	store    repo.ExchangeStore
	itemRepo repo.ItemRepository
	userRepo repo.UserRepository
	logRepo  mongorepo.LogRepository
}

func NewExchangeService(store repo.ExchangeStore, itemRepo repo.ItemRepository, userRepo repo.UserRepository, logRepo mongorepo.LogRepository) *ExchangeService {
	return &ExchangeService{
		store:    store,
		itemRepo: itemRepo,
		userRepo: userRepo,
		logRepo:  logRepo,
	}
}

// Propose opens a pending proposal for a target item. No item or balance is
// mutated here; availability and balances are validated again at settlement.
func (s *ExchangeService) Propose(requesterID uuid.UUID, input entity.CreateProposalInput) (*entity.SwapProposal, error) {
	targetID, err := uuid.Parse(input.ItemID)
	if err != nil {
		return nil, ErrItemNotFound
	}

	target, err := s.itemRepo.GetByID(targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrItemNotFound
	}
	if target.OwnerID == requesterID {
		return nil, ErrSelfProposal
	}
	if !target.Negotiable() {
		return nil, ErrItemUnavailable
	}

	var offeredID *uuid.UUID
	switch input.Kind {
	case entity.KindSwap:
		if input.OfferedItemID == "" {
			return nil, ErrOfferedItemRequired
		}
		id, err := uuid.Parse(input.OfferedItemID)
		if err != nil {
			return nil, ErrItemNotFound
		}
		offered, err := s.itemRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		if offered == nil {
			return nil, ErrItemNotFound
		}
		if offered.OwnerID != requesterID {
			return nil, ErrOfferedNotOwned
		}
		if !offered.Negotiable() {
			return nil, ErrItemUnavailable
		}
		offeredID = &id
	case entity.KindRedeem:
		if input.OfferedItemID != "" {
			return nil, ErrOfferedItemForbidden
		}
		requester, err := s.userRepo.GetByID(requesterID)
		if err != nil {
			return nil, err
		}
		if requester == nil {
			return nil, ErrUserNotFound
		}
		if requester.Points < target.PointValue {
			return nil, ErrInsufficientPoints
		}
	}

	proposal := &entity.SwapProposal{
		ID:            uuid.New(),
		RequesterID:   requesterID,
		ItemID:        targetID,
		OfferedItemID: offeredID,
		Kind:          input.Kind,
		Message:       input.Message,
		Status:        entity.ProposalPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.store.CreateProposal(proposal); err != nil {
		return nil, err
	}

	s.notify(target.OwnerID, "New proposal received",
		fmt.Sprintf("You received a %s proposal for %q.", proposal.Kind, target.Title),
		"proposal", proposal.ID)

	return proposal, nil
}

// Resolve lets the target item's current owner accept or reject a pending
// proposal. On accept, settlement runs as one transaction: re-validation,
// ownership transfer, balance movement and invalidation of competing
// proposals all commit together or not at all. If re-validation fails the
// proposal is rejected instead and the caller gets ErrStaleProposal.
func (s *ExchangeService) Resolve(actorID, proposalID uuid.UUID, decision string) (*entity.SwapProposal, error) {
	proposal, err := s.store.GetProposalByID(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrProposalNotFound
	}
	if proposal.Resolved() {
		return nil, ErrProposalResolved
	}

	target, err := s.itemRepo.GetByID(proposal.ItemID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrItemNotFound
	}
	if target.OwnerID != actorID {
		return nil, ErrNotItemOwner
	}

	if decision == "reject" {
		if err := s.flipStatus(proposal, entity.ProposalRejected, actorID); err != nil {
			return nil, err
		}
		s.notify(proposal.RequesterID, "Proposal rejected",
			fmt.Sprintf("Your %s proposal for %q was rejected.", proposal.Kind, target.Title),
			"proposal_status", proposal.ID)
		return proposal, nil
	}

	var stale bool
	err = s.store.RunSettlement(func(tx repo.SettlementTx) error {
		// No lock on the proposal row here; the status CAS below is the
		// serialization point.
		current, err := tx.Proposal(proposal.ID)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrProposalNotFound
		}
		if current.Resolved() {
			return ErrProposalResolved
		}

		itemIDs := []uuid.UUID{current.ItemID}
		if current.OfferedItemID != nil {
			itemIDs = append(itemIDs, *current.OfferedItemID)
		}
		sortIDs(itemIDs)

		locked := make(map[uuid.UUID]*entity.Item, len(itemIDs))
		for _, id := range itemIDs {
			item, err := tx.ItemForUpdate(id)
			if err != nil {
				return err
			}
			locked[id] = item
		}

		target := locked[current.ItemID]
		stale = target == nil || !target.Negotiable() || target.OwnerID != actorID

		var offered *entity.Item
		if !stale && current.Kind == entity.KindSwap {
			offered = locked[*current.OfferedItemID]
			if offered == nil || !offered.Negotiable() || offered.OwnerID != current.RequesterID {
				stale = true
			}
		}

		if !stale && current.Kind == entity.KindRedeem {
			userIDs := []uuid.UUID{current.RequesterID, target.OwnerID}
			sortIDs(userIDs)
			users := make(map[uuid.UUID]*entity.User, len(userIDs))
			for _, id := range userIDs {
				user, err := tx.UserForUpdate(id)
				if err != nil {
					return err
				}
				users[id] = user
			}
			requester := users[current.RequesterID]
			if requester == nil || requester.Points < target.PointValue {
				stale = true
			}
		}

		if stale {
			// Commit the auto-reject: the proposal is no longer
			// satisfiable and must not stay pending.
			applied, err := tx.SetProposalStatus(current.ID, entity.ProposalPending, entity.ProposalRejected)
			if err != nil {
				return err
			}
			if !applied {
				return ErrProposalResolved
			}
			return nil
		}

		switch current.Kind {
		case entity.KindSwap:
			if err := tx.TransferItem(target.ID, current.RequesterID); err != nil {
				return err
			}
			if err := tx.TransferItem(offered.ID, target.OwnerID); err != nil {
				return err
			}
		case entity.KindRedeem:
			applied, err := tx.AdjustPoints(current.RequesterID, -target.PointValue)
			if err != nil {
				return err
			}
			if !applied {
				return ErrInsufficientPoints
			}
			if _, err := tx.AdjustPoints(target.OwnerID, target.PointValue); err != nil {
				return err
			}
			if err := tx.TransferItem(target.ID, current.RequesterID); err != nil {
				return err
			}
		}

		if _, err := tx.RejectPendingReferencing(itemIDs, current.ID); err != nil {
			return err
		}
		applied, err := tx.SetProposalStatus(current.ID, entity.ProposalPending, entity.ProposalAccepted)
		if err != nil {
			return err
		}
		if !applied {
			return ErrProposalResolved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if stale {
		s.recordFlip(proposal, entity.ProposalRejected, actorID)
		s.notify(proposal.RequesterID, "Proposal no longer valid",
			fmt.Sprintf("Your %s proposal for %q could not be settled and was rejected.", proposal.Kind, target.Title),
			"proposal_status", proposal.ID)
		return nil, ErrStaleProposal
	}

	s.recordFlip(proposal, entity.ProposalAccepted, actorID)
	proposal.Status = entity.ProposalAccepted
	proposal.UpdatedAt = time.Now()
	s.notify(proposal.RequesterID, "Proposal accepted",
		fmt.Sprintf("Your %s proposal for %q was accepted.", proposal.Kind, target.Title),
		"proposal_status", proposal.ID)
	return proposal, nil
}

// Cancel withdraws a pending proposal. Only the original requester may do
// this; a cancellation racing an acceptance loses to whichever commits
// first.
func (s *ExchangeService) Cancel(requesterID, proposalID uuid.UUID) (*entity.SwapProposal, error) {
	proposal, err := s.store.GetProposalByID(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, ErrProposalNotFound
	}
	if proposal.RequesterID != requesterID {
		return nil, ErrNotRequester
	}
	if proposal.Resolved() {
		return nil, ErrProposalResolved
	}

	if err := s.flipStatus(proposal, entity.ProposalCancelled, requesterID); err != nil {
		return nil, err
	}
	return proposal, nil
}

func (s *ExchangeService) ListOutgoing(userID uuid.UUID) ([]entity.SwapProposal, error) {
	return s.store.ListByRequester(userID)
}

func (s *ExchangeService) ListIncoming(userID uuid.UUID) ([]entity.SwapProposal, error) {
	return s.store.ListTargetingOwner(userID)
}

// flipStatus moves a proposal out of pending via compare-and-swap so that a
// concurrent settlement cannot be overwritten.
func (s *ExchangeService) flipStatus(proposal *entity.SwapProposal, to string, actorID uuid.UUID) error {
	err := s.store.RunSettlement(func(tx repo.SettlementTx) error {
		applied, err := tx.SetProposalStatus(proposal.ID, entity.ProposalPending, to)
		if err != nil {
			return err
		}
		if !applied {
			return ErrProposalResolved
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.recordFlip(proposal, to, actorID)
	proposal.Status = to
	proposal.UpdatedAt = time.Now()
	return nil
}

func (s *ExchangeService) recordFlip(proposal *entity.SwapProposal, to string, actorID uuid.UUID) {
	history := &entity.StatusHistory{
		ID:          primitive.NewObjectID(),
		RelatedID:   proposal.ID.String(),
		RelatedType: "proposal",
		OldStatus:   entity.ProposalPending,
		NewStatus:   to,
		ChangedBy:   actorID.String(),
		Timestamp:   time.Now(),
	}
	if err := s.logRepo.SaveStatusHistory(history); err != nil {
		log.Printf("Warning: failed to save history for proposal %s: %v", proposal.ID, err)
	}
}

func (s *ExchangeService) notify(userID uuid.UUID, title, message, notiType string, relatedID uuid.UUID) {
	noti := &entity.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notiType,
		RelatedID: relatedID,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	if err := s.logRepo.SaveNotification(noti); err != nil {
		log.Printf("Warning: failed to save notification for user %s: %v", userID, err)
	}
}

// sortIDs orders uuids ascending; settlement locks rows in this order to
// avoid deadlock between overlapping settlements.
func sortIDs(ids []uuid.UUID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
}
