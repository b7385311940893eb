package handler

import (
	"log/slog"
	"net/http"

	"rewards/internal/delivery/api/response"
	"rewards/internal/errors"
	"rewards/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler exposes the auth facade.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password"`
}

type GoogleSignInRequest struct {
	IDToken string `json:"idToken"`
}

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Username    string `json:"username" validate:"required"`
	DisplayName string `json:"displayName"`
}

// SignIn handles email/password sign-in.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authUC.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, session)
}

// SignInWithGoogle exchanges a Google ID token. The mock provider ignores the token.
func (h *AuthHandler) SignInWithGoogle(c echo.Context) error {
	var req GoogleSignInRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authUC.SignInWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, session)
}

// SignUp creates an identity and its driver profile.
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := h.authUC.SignUp(c.Request().Context(), usecase.SignUpInput{
		Email:       req.Email,
		Password:    req.Password,
		Username:    req.Username,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, session)
}

// SignOut clears the provider session.
func (h *AuthHandler) SignOut(c echo.Context) error {
	if err := h.authUC.SignOut(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]string{"message": "Signed out"})
}

// Session returns the provider's current session. With ?wait=true it waits for
// the provider's first state report, as a client does on startup.
func (h *AuthHandler) Session(c echo.Context) error {
	ctx := c.Request().Context()

	resolve := h.authUC.CurrentSession
	if queryBool(c, "wait") {
		resolve = h.authUC.ResolveInitialState
	}

	session, err := resolve(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"provider":      h.authUC.ProviderName(),
		"authenticated": session != nil,
		"session":       session,
	})
}
