package auth

import (
	"net/http"

	"github.com/JustAdi10/Booking/infras/otel"
	"github.com/JustAdi10/Booking/internal/domains/auth/model/dto"
	"github.com/JustAdi10/Booking/internal/domains/auth/service"
	"github.com/JustAdi10/Booking/shared/constant"
	"github.com/JustAdi10/Booking/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", handler.Register)
		r.Post("/login", handler.Login)
		r.Post("/refresh", handler.RefreshToken)
		r.Post("/change-password", handler.ChangePassword)
	})
}

func (handler *Handler) scope(r *http.Request, name string) (*http.Request, otel.Scope) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)

	return r.WithContext(ctx), scope
}

// Register creates a USER account.
// @Summary Register a new user
// @Description New accounts always get the USER role. Emails are unique regardless of case.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Register Request"
// @Success 201 {object} response.Data[dto.Profile] "User registered successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/register [post]
func (handler *Handler) Register(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "Register")
	defer scope.End()

	var req dto.RegisterRequest
	if !response.Bind(w, r, scope, &req) {
		return
	}

	profile, err := handler.service.Register(r.Context(), req)
	if err != nil {
		response.Failed(w, scope, err, "failed to register user")

		return
	}

	scope.SetAttribute("user.id", profile.ID)

	response.WithJSONMessage(w, http.StatusCreated, profile, "User registered successfully")
}

// Login exchanges credentials for a token pair.
// @Summary Login a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Data[dto.LoginResponse] "Login successful"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/login [post]
func (handler *Handler) Login(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "Login")
	defer scope.End()

	var req dto.LoginRequest
	if !response.Bind(w, r, scope, &req) {
		return
	}

	session, err := handler.service.Login(r.Context(), req)
	if err != nil {
		response.Failed(w, scope, err, "failed to login user")

		return
	}

	scope.SetAttribute("user.id", session.User.ID)

	response.WithJSONMessage(w, http.StatusOK, session, "Login successful")
}

// RefreshToken rotates a token pair from a valid refresh token.
// @Summary Refresh user token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh Token Request"
// @Success 200 {object} response.Data[dto.RefreshTokenResponse] "Token refreshed"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/refresh [post]
func (handler *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "RefreshToken")
	defer scope.End()

	var req dto.RefreshTokenRequest
	if !response.Bind(w, r, scope, &req) {
		return
	}

	tokens, err := handler.service.RefreshToken(r.Context(), req)
	if err != nil {
		response.Failed(w, scope, err, "failed to refresh token")

		return
	}

	response.WithJSON(w, http.StatusOK, tokens)
}

// ChangePassword replaces the caller's password after checking the current one.
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Change Password Request"
// @Success 200 {object} response.Message "Password changed successfully"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/change-password [post]
// @Security BearerAuth
func (handler *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	r, scope := handler.scope(r, "ChangePassword")
	defer scope.End()

	var req dto.ChangePasswordRequest
	if !response.Bind(w, r, scope, &req) {
		return
	}

	userID, _ := r.Context().Value(constant.ContextKeyUserID).(string)

	if err := handler.service.ChangePassword(r.Context(), req, userID); err != nil {
		response.Failed(w, scope, err, "failed to change password")

		return
	}

	scope.AddEvent("password changed")

	response.WithMessage(w, http.StatusOK, "Password changed successfully")
}
