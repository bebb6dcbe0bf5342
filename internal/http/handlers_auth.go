package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/driftline/driftline/internal/domain/auth"
	"github.com/driftline/driftline/internal/ports"
	"github.com/driftline/driftline/internal/session"
)

// AuthHandlers provides HTTP handlers for credential-based authentication.
type AuthHandlers struct {
	Provider     ports.IdentityProvider
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type statusResponse struct {
	State     string              `json:"state"`
	Profile   *domainauth.Profile `json:"profile,omitempty"`
	Connected bool                `json:"connected"`
}

// Login handles the credential login endpoint.
// POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_credentials",
			Err:     errors.New("username and password are required"),
		})
		return
	}

	rt, ok := RuntimeFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "no_session",
			Err:     errors.New("request has no session runtime"),
		})
		return
	}

	result, err := h.Provider.Login(r.Context(), ports.Credentials{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domainauth.ErrUnauthorized) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credentials",
				Err:     errors.New("invalid username or password"),
			})
			return
		}
		h.logger().Error("login failed", slog.String("username", req.Username), slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	if err := rt.Machine.Login(r.Context(), result.Credential, result.Profile); err != nil {
		h.logger().Error("session login failed", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	setCredentialCookie(w, h.CookieDomain, result.Credential)
	WriteJSON(w, http.StatusOK, statusFor(rt))
}

// Logout handles the logout endpoint.
// POST /api/auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	rt, ok := RuntimeFromContext(r.Context())
	if ok {
		rt.Machine.Logout(r.Context())
	}
	clearAuthCookies(w, h.CookieDomain)
	WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Status reports the resolved session state, profile, and realtime
// connectivity for the calling device.
// GET /api/auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	rt, ok := RuntimeFromContext(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, statusResponse{State: domainauth.StateUnauthenticated.String()})
		return
	}
	WriteJSON(w, http.StatusOK, statusFor(rt))
}

func statusFor(rt *session.Runtime) statusResponse {
	snap := rt.Machine.State()
	resp := statusResponse{
		State:     snap.State.String(),
		Connected: rt.Connected(),
	}
	if snap.Authenticated() && snap.Profile != nil {
		p := *snap.Profile
		resp.Profile = &p
	}
	return resp
}

// setCredentialCookie mirrors the persisted credential into the cookie the
// edge gate reads. The cookie expiry follows the credential's own expiry;
// a credential without one gets a session cookie.
func setCredentialCookie(w http.ResponseWriter, domain, credential string) {
	cookie := &http.Cookie{
		Name:     CredentialCookie,
		Value:    credential,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if claims, err := domainauth.DecodeCredential(credential); err == nil && claims.ExpiresAt != nil {
		cookie.Expires = *claims.ExpiresAt
	}
	http.SetCookie(w, cookie)
}

// clearAuthCookies expires both the current and the legacy credential
// cookie, matching the store-side clear.
func clearAuthCookies(w http.ResponseWriter, domain string) {
	for _, name := range []string{CredentialCookie, LegacyCredentialCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Domain:   domain,
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
