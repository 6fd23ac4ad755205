// internal/app/features/linking/handler.go
package linking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/workhubhq/workhub/internal/app/identitylink"
	"github.com/workhubhq/workhub/internal/app/store/identities"
	"github.com/workhubhq/workhub/internal/app/store/profiles"
	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/authz"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler manages chat-based LINE linking: issuing a short-lived numeric
// code the user sends to the bot, reporting link status, and unlinking.
type Handler struct {
	Log        *zap.Logger
	Profiles   *profilestore.Store
	Identities *identitystore.Store
}

func NewHandler(profiles *profilestore.Store, identities *identitystore.Store, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Profiles: profiles, Identities: identities}
}

// generateCode returns a random 6-digit code.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /api/line/link — issue a linking code                                   |
*─────────────────────────────────────────────────────────────────────────────*/

type codeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (h *Handler) ServeIssueCode(w http.ResponseWriter, r *http.Request) {
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
	if p.LineUserID != nil {
		respond.ErrorKind(w, apperr.Conflict, "already linked to LINE")
		return
	}

	code, err := generateCode()
	if err != nil {
		h.Log.Error("linking code generation failed", zap.Error(err))
		respond.Error(w, err)
		return
	}
	expiresAt := time.Now().Add(identitylink.LinkCodeTTL)

	// Re-issuing overwrites any earlier unconsumed code.
	if err := h.Profiles.SetLinkingCode(ctx, userID, code, expiresAt); err != nil {
		h.Log.Error("linking code save failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	h.Log.Info("linking code issued", zap.String("user_id", userID.Hex()))
	respond.JSON(w, http.StatusOK, codeResponse{Code: code, ExpiresAt: expiresAt})
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /api/line/link — link status                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type statusResponse struct {
	IsLinked bool       `json:"isLinked"`
	LinkedAt *time.Time `json:"linkedAt"`
}

func (h *Handler) ServeStatus(w http.ResponseWriter, r *http.Request) {
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

	respond.JSON(w, http.StatusOK, statusResponse{
		IsLinked: p.LineUserID != nil,
		LinkedAt: p.LineLinkedAt,
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| DELETE /api/line/link — unlink                                               |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeUnlink(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Unauthorized(w)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Profiles.ClearLineLink(ctx, userID); err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("line unlink failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	// The identity mapping goes too, so the LINE account can be linked
	// again later (to this or another profile).
	if _, err := h.Identities.DeleteByUserAndProvider(ctx, userID, models.ProviderLINE); err != nil {
		h.Log.Error("identity cleanup failed", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, err)
		return
	}

	h.Log.Info("line unlinked", zap.String("user_id", userID.Hex()))
	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}
