// internal/app/features/adminusers/handler.go
package adminusers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/workhubhq/workhub/internal/app/store/identities"
	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/store/reports"
	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/authz"
	"github.com/workhubhq/workhub/internal/app/system/normalize"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves admin user management: listing, role changes, activation
// toggles, and cascading deletes.
type Handler struct {
	Log        *zap.Logger
	Profiles   *profilestore.Store
	Reports    *reportstore.Store
	Identities *identitystore.Store
}

func NewHandler(profiles *profilestore.Store, reports *reportstore.Store, identities *identitystore.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		Profiles:   profiles,
		Reports:    reports,
		Identities: identities,
	}
}

type userView struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Name       string     `json:"name"`
	Role       string     `json:"role"`
	IsActive   bool       `json:"is_active"`
	LineLinked bool       `json:"line_linked"`
	LinkedAt   *time.Time `json:"line_linked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /admin/users                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Profiles.ListAll(ctx)
	if err != nil {
		h.Log.Error("user list failed", zap.Error(err))
		respond.Error(w, err)
		return
	}

	views := make([]userView, 0, len(all))
	for _, p := range all {
		views = append(views, userView{
			ID:         p.ID.Hex(),
			Email:      p.Email,
			Name:       p.Name,
			Role:       p.Role,
			IsActive:   p.IsActive,
			LineLinked: p.LineUserID != nil,
			LinkedAt:   p.LineLinkedAt,
			CreatedAt:  p.CreatedAt,
		})
	}

	respond.JSON(w, http.StatusOK, map[string]any{"users": views})
}

/*─────────────────────────────────────────────────────────────────────────────*
| PATCH /admin/users/{id}/role                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

type roleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) ServeSetRole(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	targetID, err := primitiveID(r)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid user id")
		return
	}
	if targetID == adminID {
		respond.ErrorKind(w, apperr.Forbidden, "you cannot change your own role")
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid JSON body")
		return
	}
	role := normalize.Role(req.Role)
	if !models.IsValidRole(role) {
		respond.ErrorKind(w, apperr.Validation, `role must be "admin" or "member"`)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Profiles.SetRole(ctx, targetID, role); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.ErrorKind(w, apperr.NotFound, "user not found")
			return
		}
		h.Log.Error("role update failed", zap.Error(err), zap.String("target_id", targetID.Hex()))
		respond.Error(w, err)
		return
	}

	h.Log.Info("role changed",
		zap.String("admin_id", adminID.Hex()),
		zap.String("target_id", targetID.Hex()),
		zap.String("role", role))
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

/*─────────────────────────────────────────────────────────────────────────────*
| PATCH /admin/users/{id}/status                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type statusRequest struct {
	IsActive *bool `json:"is_active"`
}

func (h *Handler) ServeSetStatus(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	targetID, err := primitiveID(r)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid user id")
		return
	}
	if targetID == adminID {
		respond.ErrorKind(w, apperr.Forbidden, "you cannot deactivate yourself")
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.IsActive == nil {
		respond.ErrorKind(w, apperr.Validation, "is_active is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Profiles.SetActive(ctx, targetID, *req.IsActive); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.ErrorKind(w, apperr.NotFound, "user not found")
			return
		}
		h.Log.Error("status update failed", zap.Error(err), zap.String("target_id", targetID.Hex()))
		respond.Error(w, err)
		return
	}

	h.Log.Info("active status changed",
		zap.String("admin_id", adminID.Hex()),
		zap.String("target_id", targetID.Hex()),
		zap.Bool("is_active", *req.IsActive))
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /admin/users/{id}                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeDelete removes a user and their data. Order matters: reports first
// (abort on failure), then identity mappings (failure logged, delete
// continues), then the profile itself.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	_, _, adminID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	targetID, err := primitiveID(r)
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "invalid user id")
		return
	}
	if targetID == adminID {
		respond.ErrorKind(w, apperr.Forbidden, "you cannot delete yourself")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Profiles.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.ErrorKind(w, apperr.NotFound, "user not found")
			return
		}
		respond.Error(w, err)
		return
	}

	if _, err := h.Reports.DeleteByUserID(ctx, targetID); err != nil {
		h.Log.Error("report cascade delete failed", zap.Error(err), zap.String("target_id", targetID.Hex()))
		respond.Error(w, err)
		return
	}

	if _, err := h.Identities.DeleteByUserID(ctx, targetID); err != nil {
		// Orphaned identity rows block re-linking but not the delete.
		h.Log.Error("identity cascade delete failed", zap.Error(err), zap.String("target_id", targetID.Hex()))
	}

	deleted, err := h.Profiles.Delete(ctx, targetID)
	if err != nil {
		h.Log.Error("profile delete failed", zap.Error(err), zap.String("target_id", targetID.Hex()))
		respond.Error(w, err)
		return
	}
	if deleted == 0 {
		respond.ErrorKind(w, apperr.NotFound, "user not found")
		return
	}

	h.Log.Info("user deleted",
		zap.String("admin_id", adminID.Hex()),
		zap.String("target_id", targetID.Hex()))
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func primitiveID(r *http.Request) (id primitive.ObjectID, err error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
}
