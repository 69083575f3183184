package auth

import "gharinto/internal/domain"

type RegisterRequest struct {
	Name         string `json:"name" binding:"required,min=2"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role"`
	ReferralCode string `json:"referralCode"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UserPublic struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	City         string `json:"city,omitempty"`
	Role         string `json:"role"`
	ReferralCode string `json:"referralCode,omitempty"`
}

func toUserPublic(u *domain.User) UserPublic {
	return UserPublic{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		City:         u.City,
		Role:         string(u.Role),
		ReferralCode: u.ReferralCode,
	}
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  UserPublic `json:"user"`
}
