package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
)

type ItemRepository interface {
	Create(item *entity.Item) error
	GetByID(id uuid.UUID) (*entity.Item, error)
	ListApproved(filter entity.ItemFilter) ([]entity.Item, error)
	ListByOwner(ownerID uuid.UUID) ([]entity.Item, error)
	ListPendingModeration() ([]entity.Item, error)
	// SetModeration moves a pending item to the given state; a decision on
	// a non-pending item writes nothing and reports false, so racing
	// decisions cannot overwrite each other. Rejection leaves availability
	// cleared; approval sets it so the listing enters the pool.
	SetModeration(id uuid.UUID, state string) (bool, error)
	// SetAvailability toggles the availability flag of an approved item.
	// Ownership is re-checked inside the update so a caller holding a
	// stale snapshot cannot flip an item that changed hands. Reports false
	// when the item is missing, not approved, owned by someone else, or
	// already in the requested state.
	SetAvailability(id, ownerID uuid.UUID, available bool) (bool, error)
	// RemoveCascade hard-deletes an item and, in the same transaction,
	// rejects every pending proposal that references it as target or as
	// offered item. Reports false when the item does not exist.
	RemoveCascade(id uuid.UUID) (bool, error)
}

type itemRepository struct {
	db *sql.DB
}

func NewItemRepository(db *sql.DB) ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `id, owner_id, title, description, category, type, size, condition,
	tags, images, point_value, moderation_state, is_available, location, created_at, updated_at`

func scanItem(row interface{ Scan(...any) error }) (*entity.Item, error) {
	var item entity.Item
	err := row.Scan(
		&item.ID, &item.OwnerID, &item.Title, &item.Description, &item.Category,
		&item.Type, &item.Size, &item.Condition, pq.Array(&item.Tags), pq.Array(&item.Images),
		&item.PointValue, &item.ModerationState, &item.IsAvailable, &item.Location,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	return &item, nil
}

func (r *itemRepository) Create(item *entity.Item) error {
	query := `
		INSERT INTO items (id, owner_id, title, description, category, type, size, condition,
			tags, images, point_value, moderation_state, is_available, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
	`
	_, err := r.db.Exec(query,
		item.ID, item.OwnerID, item.Title, item.Description, item.Category,
		item.Type, item.Size, item.Condition, pq.Array(item.Tags), pq.Array(item.Images),
		item.PointValue, item.ModerationState, item.IsAvailable, item.Location,
	)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	return nil
}

func (r *itemRepository) GetByID(id uuid.UUID) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return scanItem(r.db.QueryRow(query, id))
}

func (r *itemRepository) ListApproved(filter entity.ItemFilter) ([]entity.Item, error) {
	query := `
		SELECT ` + itemColumns + ` FROM items
		WHERE moderation_state = 'approved' AND is_available
		  AND ($1 = '' OR category = $1)
		  AND ($2 = '' OR title ILIKE '%' || $2 || '%' OR description ILIKE '%' || $2 || '%')
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := r.db.Query(query, filter.Category, filter.Search, limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("listing approved items: %w", err)
	}
	return collectItems(rows)
}

func (r *itemRepository) ListByOwner(ownerID uuid.UUID) ([]entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing items by owner: %w", err)
	}
	return collectItems(rows)
}

func (r *itemRepository) ListPendingModeration() ([]entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE moderation_state = 'pending' ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing pending items: %w", err)
	}
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]entity.Item, error) {
	defer rows.Close()
	var items []entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *itemRepository) SetModeration(id uuid.UUID, state string) (bool, error) {
	query := `
		UPDATE items
		SET moderation_state = $1,
		    is_available = ($1 = 'approved'),
		    updated_at = NOW()
		WHERE id = $2 AND moderation_state = 'pending'
	`
	res, err := r.db.Exec(query, state, id)
	if err != nil {
		return false, fmt.Errorf("moderating item: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *itemRepository) SetAvailability(id, ownerID uuid.UUID, available bool) (bool, error) {
	query := `
		UPDATE items
		SET is_available = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3 AND moderation_state = 'approved' AND is_available <> $1
	`
	res, err := r.db.Exec(query, available, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("setting availability: %w", err)
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

func (r *itemRepository) RemoveCascade(id uuid.UUID) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("beginning removal: %w", err)
	}

	res, err := tx.Exec(`DELETE FROM items WHERE id = $1`, id)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		tx.Rollback()
		return false, err
	}
	if n == 0 {
		tx.Rollback()
		return false, nil
	}

	_, err = tx.Exec(`
		UPDATE swap_proposals SET status = 'rejected', updated_at = NOW()
		WHERE status = 'pending' AND (item_id = $1 OR offered_item_id = $1)
	`, id)
	if err != nil {
		tx.Rollback()
		return false, fmt.Errorf("rejecting orphaned proposals: %w", err)
	}

	return true, tx.Commit()
}
