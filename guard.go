package auth

import (
	"strings"

	"github.com/goliatone/go-router"
)

// SchemeBearer is the Authorization header scheme we accept
const SchemeBearer = "Bearer"

// TokenFromAuthorizationHeader extracts the raw token from an
// Authorization header value. A missing header or a non matching scheme
// is treated as an absent token.
func TokenFromAuthorizationHeader(header, scheme string) string {
	scheme = strings.TrimSpace(scheme)
	l := len(scheme)
	if l == 0 || len(header) <= l+1 {
		return ""
	}
	if !strings.EqualFold(header[:l], scheme) {
		return ""
	}
	return strings.TrimSpace(header[l:])
}

// RouteAccess is the declarative access record attached to a route at
// definition time and consulted by the guard on every request. A nil or
// empty AllowedRoles means any authenticated user.
type RouteAccess struct {
	Public       bool
	AllowedRoles []Role
}

// PublicRoute tags a route as reachable without authentication
func PublicRoute() RouteAccess {
	return RouteAccess{Public: true}
}

// RolesAllowed tags a route as restricted to the given roles
func RolesAllowed(roles ...Role) RouteAccess {
	return RouteAccess{AllowedRoles: roles}
}

// AccessGuard admits or rejects requests based on the route's access
// record and the bearer token. It keeps no per-request state; everything
// lives in the token, the session log, and the route metadata.
type AccessGuard struct {
	auth         Authenticator
	contextKey   string
	logger       Logger
	ErrorHandler router.ErrorHandler
}

// NewAccessGuard returns a guard backed by the given authenticator
func NewAccessGuard(auth Authenticator) *AccessGuard {
	g := &AccessGuard{
		auth:       auth,
		contextKey: "user",
		logger:     defLogger{},
	}
	g.ErrorHandler = g.defaultErrorHandler
	return g
}

func (g *AccessGuard) WithLogger(logger Logger) *AccessGuard {
	g.logger = logger
	return g
}

func (g *AccessGuard) WithContextKey(key string) *AccessGuard {
	if key != "" {
		g.contextKey = key
	}
	return g
}

func (g *AccessGuard) WithErrorHandler(handler router.ErrorHandler) *AccessGuard {
	if handler != nil {
		g.ErrorHandler = handler
	}
	return g
}

// Protect builds the middleware for one route. Public routes pass
// through with no auth work at all; everything else requires a live,
// unrevoked session and, when AllowedRoles is set, a non-empty role
// intersection.
func (g *AccessGuard) Protect(access RouteAccess) router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if access.Public {
				return ctx.Next()
			}

			raw := TokenFromAuthorizationHeader(
				ctx.GetString(router.HeaderAuthorization, ""),
				SchemeBearer,
			)

			user, err := g.auth.AuthorizeUser(ctx.Context(), raw)
			if err != nil {
				g.logger.Debug("guard rejected request", "path", ctx.Path(), "error", err)
				return g.ErrorHandler(ctx, ErrUnauthenticated)
			}

			if len(access.AllowedRoles) > 0 && !user.HasAnyRole(access.AllowedRoles...) {
				g.logger.Debug("guard role mismatch", "path", ctx.Path(), "user_id", user.ID.String())
				return g.ErrorHandler(ctx, ErrForbidden)
			}

			ctx.Locals(g.contextKey, user)
			ctx.SetContext(WithContext(ctx.Context(), user))

			return ctx.Next()
		}
	}
}

func (g *AccessGuard) defaultErrorHandler(ctx router.Context, err error) error {
	return renderError(ctx, err)
}

// UserFromRouter retrieves the authenticated user stored by the guard
func UserFromRouter(ctx router.Context, key string) (*User, bool) {
	if key == "" {
		key = "user"
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*User)
	return user, ok
}
