package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// FederatedAuthenticator signs users in with a provider issued identity
// token instead of a local password. Accounts are provisioned on first
// login, and the issued app token goes through the same session log
// path as password sign in, so revocation works identically for both.
type FederatedAuthenticator struct {
	verifier IdentityTokenVerifier
	auther   *Auther
	repo     RepositoryManager
	logger   Logger
}

// NewFederatedAuthenticator wires a provider verifier to the local
// authenticator and credential store
func NewFederatedAuthenticator(verifier IdentityTokenVerifier, auther *Auther, repo RepositoryManager) *FederatedAuthenticator {
	return &FederatedAuthenticator{
		verifier: verifier,
		auther:   auther,
		repo:     repo,
		logger:   defLogger{},
	}
}

func (f *FederatedAuthenticator) WithLogger(logger Logger) *FederatedAuthenticator {
	f.logger = logger
	return f
}

// Login validates the provider identity token, provisions a local
// account when none exists for the asserted email, and returns an app
// token bound to a fresh session log.
func (f *FederatedAuthenticator) Login(ctx context.Context, identityToken string) (string, error) {
	profile, err := f.verifier.VerifyIdentityToken(ctx, identityToken)
	if err != nil {
		f.logger.Debug("identity token rejected", "error", err)
		return "", goerrors.Wrap(err, goerrors.CategoryValidation, ErrInvalidIdentityToken.Message).
			WithTextCode(ErrInvalidIdentityToken.TextCode).
			WithCode(ErrInvalidIdentityToken.Code)
	}

	if profile == nil || profile.Email == "" {
		return "", ErrInvalidIdentityToken
	}

	user, err := f.repo.Users().GetByEmail(ctx, profile.Email)
	if err != nil {
		if !goerrors.IsNotFound(err) {
			return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up federated user")
		}
		if user, err = f.provision(ctx, profile); err != nil {
			return "", err
		}
	}

	if !user.IsActive {
		return "", ErrAccountDisabled
	}

	return f.auther.startSession(ctx, user)
}

// provision creates the local account for a first time federated login.
// The record carries no password hash, so password sign in stays
// impossible for it until one is set explicitly.
func (f *FederatedAuthenticator) provision(ctx context.Context, profile *IdentityProfile) (*User, error) {
	user := f.auther.userFromMessage(RegisterUserMessage{
		FullName:  profile.Name,
		Email:     profile.Email,
		Locale:    localeFromProfile(profile.Locale),
		Federated: true,
	})

	if id, err := hashid.NewUUID(profile.Email); err == nil {
		user.ID = id
	}

	f.logger.Info("provisioning federated account", "email", profile.Email)

	created, err := f.repo.Users().Register(ctx, user)
	if err != nil {
		return nil, translateCreateError(err)
	}

	return created, nil
}

func localeFromProfile(raw string) Locale {
	switch Locale(raw) {
	case LocaleFR, LocaleEnUS:
		return Locale(raw)
	}
	return LocaleFR
}
