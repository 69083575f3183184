package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailAlreadyExists  = errors.New("email already exists")
	ErrInvalidRole         = errors.New("invalid role")
	ErrUnknownReferralCode = errors.New("unknown referral code")
)
