// Package seed creates demo data for local development.
package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/yigit/mentormatch/internal/app/models/dto"
	"github.com/yigit/mentormatch/internal/app/services"
	"github.com/yigit/mentormatch/internal/pkg/apperrors"
)

// DemoPassword is shared by every demo account
const DemoPassword = "password123"

// DemoAccounts are created by CreateDemoAccounts
var DemoAccounts = []dto.SignupRequest{
	{Email: "mentor@example.com", Password: DemoPassword, Name: "Demo Mentor", Role: "mentor"},
	{Email: "mentee@example.com", Password: DemoPassword, Name: "Demo Mentee", Role: "mentee"},
}

// CreateDemoAccounts signs up the demo accounts. Accounts that already exist
// are left untouched, so it is safe to run on every start.
func CreateDemoAccounts(ctx context.Context, authService services.AuthService, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating demo accounts...")
	var finalErr error // collect errors without stopping the process

	for i := range DemoAccounts {
		account := DemoAccounts[i]
		_, err := authService.Signup(ctx, &account)
		switch {
		case err == nil:
			lgr.Info().Str("email", account.Email).Str("role", account.Role).Msg("Demo account created")
		case errors.Is(err, apperrors.ErrEmailAlreadyExists):
			lgr.Debug().Str("email", account.Email).Msg("Demo account already exists")
		default:
			lgr.Error().Err(err).Str("email", account.Email).Msg("Error creating demo account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
