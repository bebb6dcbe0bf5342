package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/driftline/driftline/internal/ports"
	"github.com/driftline/driftline/internal/routes"
)

// OAuthHandlers provides HTTP handlers for the redirect-based OIDC login
// flow. Used when the deployment runs with AUTH_MODE=oauth.
type OAuthHandlers struct {
	Flow         ports.AuthFlowProvider
	CookieDomain string
	Logger       *slog.Logger
}

func (h *OAuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Begin handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *OAuthHandlers) Begin(w http.ResponseWriter, r *http.Request) {
	redirectURI := r.URL.Query().Get("redirect_uri")
	if redirectURI == "" {
		redirectURI = routes.PathRoot
	}

	// Allow only relative paths (no scheme/host), must start with "/".
	u, err := url.Parse(redirectURI)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		redirectURI = routes.PathRoot
	}

	authURL, state, nonce, err := h.Flow.Begin(r.Context(), ports.BeginInput{RedirectURL: redirectURI})
	if err != nil {
		h.logger().Error("begin login failed", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	h.setFlowCookie(w, "oauth_state", state)
	h.setFlowCookie(w, "oauth_nonce", nonce)
	h.setFlowCookie(w, "oauth_redirect", redirectURI)

	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *OAuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_params",
			Err:     errors.New("code and state parameters are required"),
		})
		return
	}

	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_state",
			Err:     errors.New("invalid or missing state parameter"),
		})
		return
	}
	nonceCookie, err := r.Cookie("oauth_nonce")
	if err != nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_nonce",
			Err:     errors.New("missing nonce parameter"),
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

	result, err := h.Flow.Exchange(r.Context(), ports.ExchangeInput{
		Code:  code,
		State: state,
		Nonce: nonceCookie.Value,
	})
	if err != nil {
		h.logger().Error("login completion failed", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_completion_failed", Err: err})
		return
	}

	if err := rt.Machine.Login(r.Context(), result.Credential, result.Profile); err != nil {
		h.logger().Error("session login failed", slog.Any("error", err))
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed", Err: err})
		return
	}

	setCredentialCookie(w, h.CookieDomain, result.Credential)
	h.clearFlowCookie(w, "oauth_state")
	h.clearFlowCookie(w, "oauth_nonce")

	redirectURI := routes.PathRoot
	if c, err := r.Cookie("oauth_redirect"); err == nil && strings.HasPrefix(c.Value, "/") {
		redirectURI = c.Value
	}
	h.clearFlowCookie(w, "oauth_redirect")

	http.Redirect(w, r, redirectURI, http.StatusFound)
}

func (h *OAuthHandlers) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/auth",
		Domain:   h.CookieDomain,
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *OAuthHandlers) clearFlowCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/auth",
		Domain:   h.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
