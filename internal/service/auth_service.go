package service

import (
	"log"
	"time"

	"github.com/google/uuid"

	entity "github.com/codedpool/ReWear-Odoo/internal/domain"
	repo "github.com/codedpool/ReWear-Odoo/internal/repository/postgresql"
	utils "github.com/codedpool/ReWear-Odoo/pkg"
)

// AuthService supplies the verified (userID, isAdmin) identity the exchange
// core trusts. The core itself never validates credentials.
type AuthService struct {
	userRepo    repo.UserRepository
	ledger      *LedgerService
	jwtSecret   string
	signupBonus int
}

func NewAuthService(userRepo repo.UserRepository, ledger *LedgerService, jwtSecret string, signupBonus int) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		ledger:      ledger,
		jwtSecret:   jwtSecret,
		signupBonus: signupBonus,
	}
}

func (s *AuthService) Register(input entity.RegisterInput) (*entity.User, error) {
	existing, err := s.userRepo.GetByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Avatar:       input.Avatar,
		Points:       0,
		IsAdmin:      false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if s.signupBonus > 0 {
		if err := s.ledger.Credit(user.ID, s.signupBonus); err != nil {
			log.Printf("Warning: failed to credit signup bonus for user %s: %v", user.ID, err)
		} else {
			user.Points = s.signupBonus
		}
	}

	return user, nil
}

func (s *AuthService) Login(input entity.LoginInput) (*entity.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.jwtSecret, user.ID, user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &entity.LoginResponse{Token: token, User: user}, nil
}

func (s *AuthService) Profile(userID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers backs the admin user overview.
func (s *AuthService) ListUsers() ([]entity.User, error) {
	return s.userRepo.List()
}
