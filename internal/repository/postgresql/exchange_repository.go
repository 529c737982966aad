package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
)

// ExchangeStore owns proposal persistence and the settlement transaction.
// RunSettlement is the only way to mutate items, balances and proposal
// statuses together: the callback runs inside one database transaction and
// commits only when it returns nil.
type ExchangeStore interface {
	CreateProposal(p *entity.SwapProposal) error
	GetProposalByID(id uuid.UUID) (*entity.SwapProposal, error)
	ListByRequester(requesterID uuid.UUID) ([]entity.SwapProposal, error)
	ListTargetingOwner(ownerID uuid.UUID) ([]entity.SwapProposal, error)
	RunSettlement(fn func(tx SettlementTx) error) error
}

// SettlementTx is the view of the store inside a settlement transaction.
// The proposal row is read without a lock: the status compare-and-swap is
// the serialization point between competing resolutions. ForUpdate reads
// take row locks; callers lock entities in ascending id order, and write
// proposal rows only while holding the item locks, so two settlements
// touching the same pair cannot deadlock.
type SettlementTx interface {
	Proposal(id uuid.UUID) (*entity.SwapProposal, error)
	ItemForUpdate(id uuid.UUID) (*entity.Item, error)
	UserForUpdate(id uuid.UUID) (*entity.User, error)
	// TransferItem hands the item to a new owner and takes it out of the
	// open pool until the new owner relists it.
	TransferItem(itemID, newOwnerID uuid.UUID) error
	// AdjustPoints reports false when the delta would drive the balance
	// negative (nothing is written in that case).
	AdjustPoints(userID uuid.UUID, delta int) (bool, error)
	// SetProposalStatus is a compare-and-swap on the status column.
	SetProposalStatus(id uuid.UUID, from, to string) (bool, error)
	// RejectPendingReferencing invalidates every pending proposal that uses
	// one of the given items as target or offered item, except the proposal
	// being settled. Returns the number of proposals rejected.
	RejectPendingReferencing(itemIDs []uuid.UUID, except uuid.UUID) (int64, error)
}

type exchangeStore struct {
	db *sql.DB
}

func NewExchangeStore(db *sql.DB) ExchangeStore {
	return &exchangeStore{db: db}
}

const proposalColumns = `id, requester_id, item_id, offered_item_id, kind, message, status, created_at, updated_at`

func scanProposal(row interface{ Scan(...any) error }) (*entity.SwapProposal, error) {
	var p entity.SwapProposal
	var offered uuid.NullUUID
	err := row.Scan(
		&p.ID, &p.RequesterID, &p.ItemID, &offered, &p.Kind, &p.Message,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning proposal: %w", err)
	}
	if offered.Valid {
		id := offered.UUID
		p.OfferedItemID = &id
	}
	return &p, nil
}

func (s *exchangeStore) CreateProposal(p *entity.SwapProposal) error {
	query := `
		INSERT INTO swap_proposals (id, requester_id, item_id, offered_item_id, kind, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	var offered uuid.NullUUID
	if p.OfferedItemID != nil {
		offered = uuid.NullUUID{UUID: *p.OfferedItemID, Valid: true}
	}
	_, err := s.db.Exec(query, p.ID, p.RequesterID, p.ItemID, offered, p.Kind, p.Message, p.Status)
	if err != nil {
		return fmt.Errorf("creating proposal: %w", err)
	}
	return nil
}

func (s *exchangeStore) GetProposalByID(id uuid.UUID) (*entity.SwapProposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM swap_proposals WHERE id = $1`
	return scanProposal(s.db.QueryRow(query, id))
}

func (s *exchangeStore) ListByRequester(requesterID uuid.UUID) ([]entity.SwapProposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM swap_proposals WHERE requester_id = $1 ORDER BY created_at DESC`
	rows, err := s.db.Query(query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("listing proposals by requester: %w", err)
	}
	return collectProposals(rows)
}

func (s *exchangeStore) ListTargetingOwner(ownerID uuid.UUID) ([]entity.SwapProposal, error) {
	query := `
		SELECT p.id, p.requester_id, p.item_id, p.offered_item_id, p.kind, p.message, p.status, p.created_at, p.updated_at
		FROM swap_proposals p
		JOIN items i ON i.id = p.item_id
		WHERE i.owner_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := s.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing proposals targeting owner: %w", err)
	}
	return collectProposals(rows)
}

func collectProposals(rows *sql.Rows) ([]entity.SwapProposal, error) {
	defer rows.Close()
	var proposals []entity.SwapProposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, err
		}
		proposals = append(proposals, *p)
	}
	return proposals, rows.Err()
}

func (s *exchangeStore) RunSettlement(fn func(tx SettlementTx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning settlement: %w", err)
	}
	if err := fn(&settlementTx{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settlement: %w", err)
	}
	return nil
}

type settlementTx struct {
	tx *sql.Tx
}

func (t *settlementTx) Proposal(id uuid.UUID) (*entity.SwapProposal, error) {
	query := `SELECT ` + proposalColumns + ` FROM swap_proposals WHERE id = $1`
	return scanProposal(t.tx.QueryRow(query, id))
}

func (t *settlementTx) ItemForUpdate(id uuid.UUID) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return scanItem(t.tx.QueryRow(query, id))
}

func (t *settlementTx) UserForUpdate(id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	return scanUser(t.tx.QueryRow(query, id))
}

func (t *settlementTx) TransferItem(itemID, newOwnerID uuid.UUID) error {
	query := `
		UPDATE items
		SET owner_id = $1, is_available = FALSE, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := t.tx.Exec(query, newOwnerID, itemID); err != nil {
		return fmt.Errorf("transferring item: %w", err)
	}
	return nil
}

func (t *settlementTx) AdjustPoints(userID uuid.UUID, delta int) (bool, error) {
	query := `
		UPDATE users SET points = points + $1, updated_at = NOW()
		WHERE id = $2 AND points + $1 >= 0
	`
	res, err := t.tx.Exec(query, delta, userID)
	if err != nil {
		return false, fmt.Errorf("adjusting points: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (t *settlementTx) SetProposalStatus(id uuid.UUID, from, to string) (bool, error) {
	query := `
		UPDATE swap_proposals SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
	`
	res, err := t.tx.Exec(query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("updating proposal status: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (t *settlementTx) RejectPendingReferencing(itemIDs []uuid.UUID, except uuid.UUID) (int64, error) {
	ids := make([]string, len(itemIDs))
	for i, id := range itemIDs {
		ids[i] = id.String()
	}
	query := `
		UPDATE swap_proposals SET status = 'rejected', updated_at = NOW()
		WHERE status = 'pending' AND id <> $1
		  AND (item_id = ANY($2) OR offered_item_id = ANY($2))
	`
	res, err := t.tx.Exec(query, except, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("rejecting stale proposals: %w", err)
	}
	return res.RowsAffected()
}
