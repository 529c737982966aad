package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
)

type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uuid.UUID) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	List() ([]entity.User, error)
	// AdjustPoints applies delta to the user's balance. It reports false
	// without mutating anything when the user is missing or the delta would
	// drive the balance negative.
	AdjustPoints(id uuid.UUID, delta int) (bool, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, name, email, password_hash, avatar, points, is_admin, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Avatar,
		&user.Points, &user.IsAdmin, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Create(user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, avatar, points, is_admin, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
	`
	_, err := r.db.Exec(query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Avatar,
		user.Points, user.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) List() ([]entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (r *userRepository) AdjustPoints(id uuid.UUID, delta int) (bool, error) {
	query := `
		UPDATE users SET points = points + $1, updated_at = NOW()
		WHERE id = $2 AND points + $1 >= 0
	`
	res, err := r.db.Exec(query, delta, id)
	if err != nil {
		return false, fmt.Errorf("adjusting points: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
