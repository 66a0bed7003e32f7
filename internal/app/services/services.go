// Package services holds the business rules of the API. Controllers call
// services; services call repositories.
package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/mentormatch/internal/app/repositories"
)

// Services groups every service the routes need
type Services struct {
	Auth         AuthService
	User         UserService
	MatchRequest MatchRequestService
}

// Options carries the settings services are built with
type Options struct {
	Tokens     TokenIssuer
	BcryptCost int
	MatchRules MatchRulesConfig
}

// NewServices wires the services on top of the repositories
func NewServices(repos *repositories.Repositories, opts Options, logger zerolog.Logger) *Services {
	return &Services{
		Auth:         NewAuthService(repos.UserRepository, opts.Tokens, opts.BcryptCost, logger.With().Str("component", "auth_service").Logger()),
		User:         NewUserService(repos.UserRepository, logger.With().Str("component", "user_service").Logger()),
		MatchRequest: NewMatchRequestService(repos.MatchRequestRepository, repos.UserRepository, opts.MatchRules, logger.With().Str("component", "match_request_service").Logger()),
	}
}
