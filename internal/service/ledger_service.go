package service

import (
	"github.com/google/uuid"

	repo "github.com/codedpool/ReWear-Odoo/internal/repository/postgresql"
)

// LedgerService is the only write path to user point balances outside a
// settlement transaction. Callers invoke each operation exactly once; there
// is no idempotency key.
type LedgerService struct {
	userRepo repo.UserRepository
}

func NewLedgerService(userRepo repo.UserRepository) *LedgerService {
	return &LedgerService{userRepo: userRepo}
}

func (s *LedgerService) Credit(userID uuid.UUID, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	applied, err := s.userRepo.AdjustPoints(userID, amount)
	if err != nil {
		return err
	}
	if !applied {
		return ErrUserNotFound
	}
	return nil
}

func (s *LedgerService) Debit(userID uuid.UUID, amount int) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	applied, err := s.userRepo.AdjustPoints(userID, -amount)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}
	// The guarded update refuses both missing users and overdrafts;
	// tell them apart for the caller.
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return ErrInsufficientPoints
}

func (s *LedgerService) Balance(userID uuid.UUID) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUserNotFound
	}
	return user.Points, nil
}
