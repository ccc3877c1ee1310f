package auth

import (
	"context"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// FederatedLogin is the provider-backed login surface the controller
// talks to
type FederatedLogin interface {
	Login(ctx context.Context, identityToken string) (string, error)
}

// RegisterAuthRoutes mounts the JSON auth endpoints on the given router
func RegisterAuthRoutes[T any](app router.Router[T], opts ...AuthControllerOption) {

	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Login, controller.SignIn).
		SetName("auth.sign-in")

	app.Post(controller.Routes.GoogleLogin, controller.GoogleSignIn).
		SetName("auth.google-sign-in")

	app.Post(controller.Routes.Register, controller.Register).
		SetName("auth.register")

	app.Delete(controller.Routes.SignOut, controller.SignOut).
		SetName("auth.sign-out")
}

type AuthControllerRoutes struct {
	Login       string
	GoogleLogin string
	Register    string
	SignOut     string
}

type AuthController struct {
	Logger       Logger
	Auther       Authenticator
	Federated    FederatedLogin
	Routes       *AuthControllerRoutes
	ErrorHandler router.ErrorHandler
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithControllerAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithControllerFederated(federated FederatedLogin) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Federated = federated
		return c
	}
}

func WithControllerRoutes(routes *AuthControllerRoutes) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if routes != nil {
			c.Routes = routes
		}
		return c
	}
}

func WithControllerErrorHandler(handler router.ErrorHandler) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if handler != nil {
			c.ErrorHandler = handler
		}
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:       defLogger{},
		ErrorHandler: renderError,
		Routes: &AuthControllerRoutes{
			Login:       "/auth/login",
			GoogleLogin: "/auth/google-login",
			Register:    "/auth/register",
			SignOut:     "/auth/sign-out",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// ResponseMetadata is the envelope shared by every JSON response
type ResponseMetadata struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type TokenResponse struct {
	ResponseMetadata
	AccessToken string `json:"access_token"`
}

type RegisterResponse struct {
	ResponseMetadata
	AccessToken string `json:"access_token"`
	Data        *User  `json:"data"`
}

// SignInRequest payload
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) SignIn(ctx router.Context) error {
	payload := new(SignInRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("sign in parse payload", "error", err)
		return a.ErrorHandler(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, invalidPayload(err))
	}

	token, err := a.Auther.SignIn(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("sign in failed", "email", payload.Email, "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, TokenResponse{
		ResponseMetadata: ResponseMetadata{
			Message: "user successfully signed in",
			Status:  fiber.StatusOK,
		},
		AccessToken: token,
	})
}

// GoogleSignInRequest payload
type GoogleSignInRequest struct {
	IDToken string `json:"id_token"`
}

// Validate will run validation rules
func (r GoogleSignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.IDToken,
			validation.Required,
		),
	)
}

func (a *AuthController) GoogleSignIn(ctx router.Context) error {
	if a.Federated == nil {
		return a.ErrorHandler(ctx, goerrors.New(
			"federated sign in is not configured",
			goerrors.CategoryInternal,
		).WithCode(goerrors.CodeInternal))
	}

	payload := new(GoogleSignInRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("google sign in parse payload", "error", err)
		return a.ErrorHandler(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, invalidPayload(err))
	}

	token, err := a.Federated.Login(ctx.Context(), payload.IDToken)
	if err != nil {
		a.Logger.Error("google sign in failed", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusOK, TokenResponse{
		ResponseMetadata: ResponseMetadata{
			Message: "user successfully signed in",
			Status:  fiber.StatusOK,
		},
		AccessToken: token,
	})
}

// RegisterRequest payload
type RegisterRequest struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Phone    string `json:"phone_number"`
	Address  string `json:"address"`
	Locale   string `json:"locale"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.Length(6, 15), is.Digit),
		validation.Field(&r.Locale, validation.In(string(LocaleFR), string(LocaleEnUS))),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

func (a *AuthController) Register(ctx router.Context) error {
	payload := new(RegisterRequest)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register parse payload", "error", err)
		return a.ErrorHandler(ctx, badPayload(err))
	}

	if err := payload.Validate(); err != nil {
		return a.ErrorHandler(ctx, invalidPayload(err))
	}

	token, user, err := a.Auther.SignUp(ctx.Context(), RegisterUserMessage{
		FullName: payload.FullName,
		Email:    payload.Email,
		Phone:    payload.Phone,
		Address:  payload.Address,
		Locale:   Locale(payload.Locale),
		Password: payload.Password,
	})
	if err != nil {
		a.Logger.Error("register failed", "email", payload.Email, "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.JSON(fiber.StatusCreated, RegisterResponse{
		ResponseMetadata: ResponseMetadata{
			Message: "user successfully registered",
			Status:  fiber.StatusCreated,
		},
		AccessToken: token,
		Data:        user,
	})
}

func (a *AuthController) SignOut(ctx router.Context) error {
	header := ctx.GetString(router.HeaderAuthorization, "")

	if err := a.Auther.SignOut(ctx.Context(), header); err != nil {
		a.Logger.Error("sign out failed", "error", err)
		return a.ErrorHandler(ctx, err)
	}

	return ctx.NoContent(fiber.StatusNoContent)
}

func badPayload(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body").
		WithTextCode("BAD_PAYLOAD").
		WithCode(goerrors.CodeBadRequest)
}

func invalidPayload(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error()).
		WithTextCode("VALIDATION_ERROR").
		WithCode(goerrors.CodeBadRequest)
}

// renderError is the single boundary translator from the error taxonomy
// to HTTP. The rich error's Code is the response status; anything that
// is not a rich error renders as an opaque 500.
func renderError(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "An unexpected server error occurred").
			WithCode(goerrors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = http.StatusInternalServerError
	}

	return ctx.JSON(status, ResponseMetadata{
		Message: richErr.Message,
		Status:  status,
	})
}
