// internal/app/features/authline/handler.go
package authline

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/workhubhq/workhub/internal/app/identitylink"
	"github.com/workhubhq/workhub/internal/app/store/oauthstate"
	"github.com/workhubhq/workhub/internal/app/system/auth"
	"github.com/workhubhq/workhub/internal/app/system/authz"
	"github.com/workhubhq/workhub/internal/app/system/line"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const (
	// ModeLogin signs the LINE account in, provisioning a profile on first
	// contact. ModeLink binds the LINE account to the signed-in profile.
	ModeLogin = "login"
	ModeLink  = "link"
)

// Handler drives the LINE Login flow. Both modes share one callback; the
// mode rides in the state parameter as "<nonce>_<mode>" and is confirmed
// against the server-side state record.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Login      *line.LoginClient
	Resolver   *identitylink.Resolver
	StateStore *oauthstate.Store
}

func NewHandler(
	login *line.LoginClient,
	resolver *identitylink.Resolver,
	stateStore *oauthstate.Store,
	sessionMgr *auth.SessionManager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Login:      login,
		Resolver:   resolver,
		StateStore: stateStore,
	}
}

// parseMode extracts the mode from a "<nonce>_<mode>" state string. Anything
// that is not exactly "link" falls back to login.
func parseMode(state string) string {
	parts := strings.Split(state, "_")
	if parts[len(parts)-1] == ModeLink {
		return ModeLink
	}
	return ModeLogin
}

// errorRedirect sends the browser somewhere useful when the flow fails:
// the settings page for link mode, the login page otherwise.
func (h *Handler) errorRedirect(w http.ResponseWriter, r *http.Request, mode, code string) {
	path := "/login?error=" + url.QueryEscape(code)
	if mode == ModeLink {
		path = "/settings?error=" + url.QueryEscape(code)
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/line/start?mode=login|link                                         |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeStart(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode != ModeLink {
		mode = ModeLogin
	}

	if !h.Login.IsConfigured() {
		h.Log.Warn("LINE Login not configured")
		h.errorRedirect(w, r, mode, "line_not_configured")
		return
	}

	if mode == ModeLink {
		if _, _, _, ok := authz.UserCtx(r); !ok {
			http.Redirect(w, r, "/login?error=not_logged_in", http.StatusSeeOther)
			return
		}
	}

	state := uuid.NewString() + "_" + mode

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(10 * time.Minute)
	if err := h.StateStore.Save(ctx, state, mode, "", expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		h.errorRedirect(w, r, mode, "internal")
		return
	}

	h.Log.Debug("initiating LINE auth flow", zap.String("mode", mode))
	http.Redirect(w, r, h.Login.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /auth/line/callback                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state := q.Get("state")
	mode := parseMode(state)

	if errParam := q.Get("error"); errParam != "" {
		h.Log.Warn("LINE auth error",
			zap.String("error", errParam),
			zap.String("description", q.Get("error_description")))
		h.errorRedirect(w, r, mode, errParam)
		return
	}

	code := q.Get("code")
	if code == "" {
		h.Log.Warn("missing LINE auth code")
		h.errorRedirect(w, r, mode, "no_code")
		return
	}

	ctxTimeout, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	storedMode, _, valid, err := h.StateStore.Validate(ctxTimeout, state)
	if err != nil {
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		h.errorRedirect(w, r, mode, "internal")
		return
	}
	if !valid {
		h.Log.Warn("invalid or expired LINE auth state")
		h.errorRedirect(w, r, mode, "invalid_state")
		return
	}
	// The stored record is authoritative over the client-supplied suffix.
	mode = storedMode

	accessToken, err := h.Login.Exchange(r.Context(), code)
	if err != nil {
		h.Log.Error("LINE token exchange failed", zap.Error(err))
		h.errorRedirect(w, r, mode, "token_exchange")
		return
	}

	lineProfile, err := h.Login.FetchProfile(r.Context(), accessToken)
	if err != nil {
		h.Log.Error("LINE profile fetch failed", zap.Error(err))
		h.errorRedirect(w, r, mode, "profile_fetch")
		return
	}

	if mode == ModeLink {
		h.handleLink(w, r, lineProfile)
		return
	}
	h.handleLogin(w, r, lineProfile)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request, lp *line.Profile) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, existing, err := h.Resolver.ResolveLogin(ctx, lp)
	if err != nil {
		h.Log.Error("LINE login resolution failed", zap.Error(err))
		h.errorRedirect(w, r, ModeLogin, "internal")
		return
	}
	if !p.IsActive {
		h.errorRedirect(w, r, ModeLogin, "account_disabled")
		return
	}

	err = h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:    p.ID.Hex(),
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role,
	})
	if err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", p.ID.Hex()))
		h.errorRedirect(w, r, ModeLogin, "session")
		return
	}

	h.Log.Info("user logged in via LINE",
		zap.String("user_id", p.ID.Hex()),
		zap.Bool("existing_identity", existing))
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *Handler) handleLink(w http.ResponseWriter, r *http.Request, lp *line.Profile) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		http.Redirect(w, r, "/login?error=not_logged_in", http.StatusSeeOther)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	switch err := h.Resolver.ResolveLink(ctx, userID, lp); {
	case err == nil:
		h.Log.Info("LINE account linked", zap.String("user_id", userID.Hex()))
		http.Redirect(w, r, "/settings?message=line_linked", http.StatusSeeOther)
	case errors.Is(err, identitylink.ErrAlreadyLinked):
		http.Redirect(w, r, "/settings?message=already_linked", http.StatusSeeOther)
	case errors.Is(err, identitylink.ErrLinkedToOther):
		http.Redirect(w, r, "/settings?error=line_already_linked_to_other", http.StatusSeeOther)
	default:
		h.Log.Error("LINE link failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		h.errorRedirect(w, r, ModeLink, "internal")
	}
}
