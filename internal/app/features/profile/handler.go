// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/authz"
	"github.com/workhubhq/workhub/internal/app/system/normalize"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the signed-in user's own profile. Role and active status
// are admin-only concerns and cannot be changed here.
type Handler struct {
	Log      *zap.Logger
	Profiles *profilestore.Store
}

func NewHandler(profiles *profilestore.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Profiles: profiles}
}

type meResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"is_active"`
	LineLinked bool       `json:"line_linked"`
	LinkedAt   *time.Time `json:"line_linked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func meView(p *models.Profile) meResponse {
	return meResponse{
		ID:         p.ID.Hex(),
		Email:      p.Email,
		Name:       p.Name,
		Role:       p.Role,
		IsActive:   p.IsActive,
		LineLinked: p.LineUserID != nil,
		LinkedAt:   p.LineLinkedAt,
		CreatedAt:  p.CreatedAt,
	}
}

// ServeGet handles GET /me.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Profiles.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		respond.ErrorKind(w, apperr.NotFound, "profile not found")
		return
	}
	if err != nil {
		h.Log.Error("profile load failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, meView(p))
}

type updateRequest struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// ServeUpdate handles PATCH /me. Only the display name is editable;
// attempts to change role or active status are rejected outright rather
// than silently ignored.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid JSON body")
		return
	}

	if req.Role != nil || req.IsActive != nil {
		respond.ErrorKind(w, apperr.Forbidden, "role and active status can only be changed by an admin")
		return
	}
	if req.Name == nil || normalize.Name(*req.Name) == "" {
		respond.ErrorKind(w, apperr.Validation, "name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Profiles.UpdateName(ctx, userID, *req.Name); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.ErrorKind(w, apperr.NotFound, "profile not found")
			return
		}
		h.Log.Error("profile update failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	p, err := h.Profiles.GetByID(ctx, userID)
	if err != nil {
		h.Log.Error("profile reload failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, meView(p))
}
