package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gharinto/internal/domain"
	"gharinto/internal/modules/wallet"
)

// Referral bonuses, in the smallest currency unit. Credited at registration
// when the new user presents a valid referral code.
const (
	referrerSignupBonus = 1000
	referredSignupBonus = 500
)

type Service struct {
	users UserRepositoryInterface
	jwt   jwtService
}

func NewService(users UserRepositoryInterface, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Register creates the account. When a referral code resolves, the new user's
// referredBy is set and both wallets are credited in the same transaction as
// the user insert, so a failed credit also rolls back the account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	role := domain.RoleCustomer
	if req.Role != "" {
		role = domain.UserRole(req.Role)
		switch role {
		case domain.RoleCustomer, domain.RoleDesigner, domain.RoleProjectManager:
		default:
			return nil, ErrInvalidRole
		}
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var referrer *domain.User
	if req.ReferralCode != "" {
		u, err := s.users.GetByReferralCode(ctx, strings.TrimSpace(req.ReferralCode))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUnknownReferralCode
			}
			return nil, err
		}
		referrer = u
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		City:         strings.TrimSpace(req.City),
		Role:         role,
		ReferralCode: newReferralCode(),
	}
	if referrer != nil {
		user.ReferredBy = &referrer.ID
	}

	err = s.users.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.users.CreateTx(tx, user); err != nil {
			return err
		}

		if referrer == nil {
			return nil
		}

		note := fmt.Sprintf("Referral signup bonus for inviting %s", user.Email)
		if _, err := wallet.CreditTx(tx, referrer.ID, referrerSignupBonus, wallet.TransactionTypeReferralBonus, note); err != nil {
			return err
		}
		_, err := wallet.CreditTx(tx, user.ID, referredSignupBonus, wallet.TransactionTypeReferralBonus, "Welcome bonus for joining via referral")
		return err
	})
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (string, *domain.User, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", nil, err
	}

	user.PasswordHash = ""
	return token, user, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// newReferralCode derives a short shareable code from a fresh UUID.
func newReferralCode() string {
	return "GH-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
