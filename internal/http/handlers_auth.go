package http

import (
	"errors"
	"net/http"
	"sync/atomic"

	"vestadmin/internal/auth"
	applog "vestadmin/internal/log"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := DecodeJSONBody(r, &req); err != nil {
		BadRequestError("id and password are required").Write(w)
		return
	}

	user, err := s.admins.Verify(ctx, req.ID, req.Password)
	switch {
	case errors.Is(err, auth.ErrMissingFields):
		BadRequestError("id and password are required").Write(w)
		return
	case errors.Is(err, auth.ErrInvalidCredentials):
		atomic.AddInt64(&s.loginFailures, 1)
		s.logger.WarnContext(ctx, "Login rejected",
			applog.FieldClientIP, s.securityDetector.ExtractClientIP(r))
		UnauthorizedError("invalid id or password").Write(w)
		return
	case err != nil:
		applog.LogError(ctx, "Login failed", err, applog.OpLogin, nil)
		InternalServerError("login failed").Write(w)
		return
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		applog.LogError(ctx, "Failed to issue session", err, applog.OpLogin, nil)
		InternalServerError("login failed").Write(w)
		return
	}

	s.logger.InfoContext(ctx, "Admin logged in", applog.FieldIdentity, user.ID)
	NewJSONResponse().
		Cookie(s.sessionCookie(token)).
		Body(map[string]string{"message": "login successful", "id": user.ID}).
		Write(w)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.logger.DebugContext(r.Context(), "Session cookie cleared", applog.FieldOperation, applog.OpLogout)
	NewJSONResponse().
		Cookie(s.clearedSessionCookie()).
		Message("logged out").
		Write(w)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		UnauthorizedError("authentication required").Write(w)
		return
	}
	NewJSONResponse().Body(map[string]any{
		"email":   claims.Email,
		"isAdmin": claims.IsAdmin,
	}).Write(w)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ChangePasswordRequest
	if err := DecodeJSONBody(r, &req); err != nil {
		BadRequestError(auth.ErrMissingFields.Error()).Write(w)
		return
	}

	err := s.admins.ChangePassword(ctx, req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrPasswordTooShort),
		errors.Is(err, auth.ErrPasswordTooLong),
		errors.Is(err, auth.ErrIncorrectPassword):
		BadRequestError(err.Error()).Write(w)
		return
	case err != nil:
		applog.LogError(ctx, "Password change failed", err, applog.OpChangePassword, nil)
		InternalServerError("failed to change password").Write(w)
		return
	}

	NewJSONResponse().Message("password changed").Write(w)
}
