package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RegisterUserMessage carries the fields needed to create an account
type RegisterUserMessage struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone_number"`
	Address  string `json:"address"`
	Locale   Locale `json:"locale"`
	Password string `json:"password"`
	Roles    []Role `json:"roles"`

	// Federated marks registrations coming from an identity provider.
	// They carry no password and the account starts online.
	Federated bool `json:"-"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Auther orchestrates sign-in, sign-up, sign-out, and request-level
// authorization against the credential store
type Auther struct {
	repo         RepositoryManager
	tokenService TokenService
	hasher       PasswordHasher
	logger       Logger
	now          Clock
}

// NewAuthenticator returns a new Auther wired from config
func NewAuthenticator(repo RepositoryManager, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		jwt.ClaimStrings(opts.GetAudience()),
		defLogger{},
	)

	return &Auther{
		repo:         repo,
		tokenService: tokenService,
		hasher:       NewHasher(opts.GetHashCost()),
		logger:       defLogger{},
		now:          time.Now,
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	return s
}

func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

func (s *Auther) WithHasher(h PasswordHasher) *Auther {
	if h != nil {
		s.hasher = h
	}
	return s
}

func (s *Auther) WithClock(clock Clock) *Auther {
	if clock != nil {
		s.now = clock
	}
	return s
}

// TokenService returns the TokenService instance used by this Auther
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// SignIn verifies the credentials, opens a session log, and returns a
// signed access token. The response never distinguishes an unknown email
// from a wrong password.
func (s *Auther) SignIn(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			s.logger.Debug("SignIn unknown email", "email", email)
			return "", ErrInvalidCredentials
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during sign in")
	}

	if err := s.hasher.Compare(password, user.PasswordHash); err != nil {
		s.logger.Debug("SignIn password mismatch", "user_id", user.ID.String())
		return "", ErrInvalidCredentials
	}

	if !user.IsActive {
		s.logger.Warn("SignIn blocked for deactivated account", "user_id", user.ID.String())
		return "", ErrAccountDisabled
	}

	return s.startSession(ctx, user)
}

// SignUp registers a new account and immediately authenticates it;
// registration and sign-in share the same session bootstrap.
func (s *Auther) SignUp(ctx context.Context, msg RegisterUserMessage) (string, *User, error) {
	user, err := s.registerUser(ctx, msg)
	if err != nil {
		return "", nil, err
	}

	token, err := s.startSession(ctx, user)
	if err != nil {
		return "", nil, err
	}

	return token, user.Sanitized(), nil
}

// CreateAccount provisions an account on a user's behalf with a random
// temporary password. No session is opened.
func (s *Auther) CreateAccount(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	msg.Password = ""
	msg.Federated = false

	user := s.userFromMessage(msg)
	user.PasswordHash = RandomPasswordHash()

	created, err := s.repo.Users().Register(ctx, user)
	if err != nil {
		return nil, translateCreateError(err)
	}

	return created.Sanitized(), nil
}

// SignOut closes the session log referenced by the bearer token in the
// Authorization header. A missing or non-Bearer header is a no-op, and
// re-signing-out an already closed session is tolerated.
func (s *Auther) SignOut(ctx context.Context, authorizationHeader string) error {
	raw := TokenFromAuthorizationHeader(authorizationHeader, SchemeBearer)
	if raw == "" {
		return nil
	}

	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Debug("SignOut token validation failed", "error", err)
		return ErrUnauthenticated
	}

	logID, err := uuid.Parse(claims.SessionLogID)
	if err != nil {
		return ErrUnauthenticated
	}

	logoutAt := s.now()

	return s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.repo.SessionLogs().GetByLogIDTx(ctx, tx, logID)
		if err != nil {
			if errors.IsNotFound(err) {
				return ErrUnauthenticated
			}
			return errors.Wrap(err, errors.CategoryInternal, "failed to load session log during sign out")
		}

		if err := s.repo.SessionLogs().MarkLoggedOutTx(ctx, tx, logID, logoutAt); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to close session log")
		}

		return s.repo.Users().MarkOnlineTx(ctx, tx, record.UserID, false)
	})
}

// AuthorizeUser resolves the bearer token into an authenticated user. A
// cryptographically valid token is still rejected once its session log
// carries a logout timestamp.
func (s *Auther) AuthorizeUser(ctx context.Context, rawToken string) (*User, error) {
	if rawToken == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.tokenService.Validate(rawToken)
	if err != nil {
		if IsTokenExpiredError(err) {
			s.logger.Debug("AuthorizeUser expired token")
		} else {
			s.logger.Debug("AuthorizeUser invalid token", "error", err)
		}
		return nil, ErrUnauthenticated
	}

	logID, err := uuid.Parse(claims.SessionLogID)
	if err != nil {
		s.logger.Debug("AuthorizeUser token carries no session log id")
		return nil, ErrUnauthenticated
	}

	record, err := s.repo.SessionLogs().GetByLogID(ctx, logID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load session log")
	}

	if record.Revoked() {
		s.logger.Debug("AuthorizeUser session revoked", "log_id", logID.String())
		return nil, ErrUnauthenticated
	}

	user, err := s.repo.Users().GetByEmail(ctx, claims.Subject())
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load user during authorization")
	}

	if !user.IsActive {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// ValidateUser is the side-effect free credential check used by local
// verification strategies. It returns (nil, nil) on any mismatch.
func (s *Auther) ValidateUser(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during validation")
	}

	if !user.IsActive {
		return nil, nil
	}

	if err := s.hasher.Compare(password, user.PasswordHash); err != nil {
		return nil, nil
	}

	return user.Sanitized(), nil
}

// startSession is the shared subroutine behind sign-in, sign-up, and
// federated login: one new session log row, the user stamped online, and
// a token embedding the log id.
func (s *Auther) startSession(ctx context.Context, user *User) (string, error) {
	record := &SessionLog{
		UserID:  user.ID,
		LoginAt: s.now(),
	}

	err := s.repo.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		if record, err = s.repo.SessionLogs().CreateTx(ctx, tx, record); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create session log")
		}

		return s.repo.Users().MarkOnlineTx(ctx, tx, user.ID, true)
	})

	if err != nil {
		var richErr *errors.Error
		if errors.As(err, &richErr) {
			return "", richErr
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "session bootstrap transaction failed")
	}

	return s.tokenService.Generate(user, record.ID.String())
}

func (s *Auther) registerUser(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	user := s.userFromMessage(msg)

	if msg.Password != "" {
		hash, err := s.hasher.Hash(msg.Password)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryValidation, "invalid password provided")
		}
		user.PasswordHash = hash
	} else if !msg.Federated {
		return nil, ErrNoEmptyString
	}

	created, err := s.repo.Users().Register(ctx, user)
	if err != nil {
		return nil, translateCreateError(err)
	}

	return created, nil
}

func (s *Auther) userFromMessage(msg RegisterUserMessage) *User {
	return &User{
		FullName: strings.TrimSpace(msg.FullName),
		Email:    strings.TrimSpace(msg.Email),
		Phone:    msg.Phone,
		Address:  msg.Address,
		Locale:   msg.Locale,
		Roles:    msg.Roles,
		IsActive: true,
		IsOnline: msg.Federated,
	}
}

func translateCreateError(err error) error {
	if isUniqueViolation(err) {
		return ErrDuplicateAccount
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr
	}

	return errors.Wrap(err, errors.CategoryInternal, "could not create user")
}

// isUniqueViolation sniffs driver-level unique constraint failures; the
// email uniqueness check is delegated to the store's constraint.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

var _ Authenticator = (*Auther)(nil)
