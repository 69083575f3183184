package auth

import (
	"context"

	"gorm.io/gorm"

	"gharinto/internal/domain"
)

// UserRepositoryInterface covers only what the auth service needs.
type UserRepositoryInterface interface {
	CreateTx(tx *gorm.DB, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByReferralCode(ctx context.Context, code string) (*domain.User, error)
	DB() *gorm.DB
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
