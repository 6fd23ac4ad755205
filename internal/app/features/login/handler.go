// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/auth"
	"github.com/workhubhq/workhub/internal/app/system/normalize"
	"github.com/workhubhq/workhub/internal/app/system/ratelimit"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler serves email/password signup, login, and logout.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Profiles   *profilestore.Store
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(profiles *profilestore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Profiles:   profiles,
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

type profileView struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func viewOf(p *models.Profile) profileView {
	return profileView{
		ID:       p.ID.Hex(),
		Email:    p.Email,
		Name:     p.Name,
		Role:     p.Role,
		IsActive: p.IsActive,
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// ServeSignup handles POST /auth/signup. New accounts always start as
// active members; admin is granted later by an existing admin.
func (h *Handler) ServeSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid JSON body")
		return
	}

	req.Email = normalize.Email(req.Email)
	req.Name = normalize.Name(req.Name)

	switch {
	case req.Email == "" || !strings.Contains(req.Email, "@"):
		respond.ErrorKind(w, apperr.Validation, "a valid email is required")
		return
	case len(req.Password) < 8:
		respond.ErrorKind(w, apperr.Validation, "password must be at least 8 characters")
		return
	case req.Name == "":
		respond.ErrorKind(w, apperr.Validation, "name is required")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		respond.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.Create(ctx, models.Profile{
		Email:        req.Email,
		Name:         req.Name,
		Role:         models.RoleMember,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, profilestore.ErrDuplicateEmail) {
			respond.ErrorKind(w, apperr.Conflict, "an account with this email already exists")
			return
		}
		h.Log.Error("profile create failed", zap.Error(err))
		respond.Error(w, err)
		return
	}

	if err := h.signIn(w, r, &p); err != nil {
		return
	}

	h.Log.Info("user signed up", zap.String("user_id", p.ID.Hex()))
	respond.JSON(w, http.StatusCreated, viewOf(&p))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ServeLogin handles POST /auth/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid JSON body")
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, req.Email); !ok {
			h.Log.Warn("login rate limited",
				zap.String("ip", ratelimit.ClientIP(r)))
			respond.ErrorKind(w, apperr.RateLimited, reason)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Same response as a bad password so emails cannot be probed.
		respond.ErrorKind(w, apperr.NotAuthenticated, "invalid email or password")
		return
	}
	if err != nil {
		h.Log.Error("login lookup failed", zap.Error(err))
		respond.Error(w, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)) != nil {
		respond.ErrorKind(w, apperr.NotAuthenticated, "invalid email or password")
		return
	}
	if !p.IsActive {
		respond.ErrorKind(w, apperr.Forbidden, "this account has been deactivated")
		return
	}

	if err := h.signIn(w, r, p); err != nil {
		return
	}
	if h.Limiter != nil {
		h.Limiter.ResetEmail(req.Email)
	}

	h.Log.Info("user logged in", zap.String("user_id", p.ID.Hex()))
	respond.JSON(w, http.StatusOK, viewOf(p))
}

// ServeLogout handles POST /auth/logout.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("logout failed", zap.Error(err))
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, p *models.Profile) error {
	err := h.SessionMgr.SignIn(w, r, &auth.SessionUser{
		ID:    p.ID.Hex(),
		Name:  p.Name,
		Email: p.Email,
		Role:  p.Role,
	})
	if err != nil {
		h.Log.Error("session save failed", zap.Error(err), zap.String("user_id", p.ID.Hex()))
		respond.Error(w, err)
	}
	return err
}
