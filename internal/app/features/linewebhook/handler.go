// internal/app/features/linewebhook/handler.go
package linewebhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/workhubhq/workhub/internal/app/store/identities"
	"github.com/workhubhq/workhub/internal/app/system/apperr"
	"github.com/workhubhq/workhub/internal/app/system/limits"
	"github.com/workhubhq/workhub/internal/app/system/line"
	"github.com/workhubhq/workhub/internal/app/system/respond"
	"github.com/workhubhq/workhub/internal/app/system/timeouts"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var linkingCodePattern = regexp.MustCompile(`^\d{6}$`)

// ProfileLinker is the slice of the profile store the webhook needs.
type ProfileLinker interface {
	GetByLineUserID(ctx context.Context, lineUserID string) (*models.Profile, error)
	GetByLinkingCode(ctx context.Context, code string) (*models.Profile, error)
	CompleteLineLink(ctx context.Context, id primitive.ObjectID, lineUserID string) error
}

// IdentityRecorder records the provider-to-profile mapping after a link.
type IdentityRecorder interface {
	Insert(ctx context.Context, ident models.UserIdentity) (models.UserIdentity, error)
}

// Replier answers webhook events; *line.Client in production.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// Handler processes inbound events from the LINE platform: chat messages
// carrying 6-digit linking codes, and follow events.
type Handler struct {
	Log           *zap.Logger
	Client        Replier
	Profiles      ProfileLinker
	Identities    IdentityRecorder
	ChannelSecret string
	AppURL        string
}

func NewHandler(
	client Replier,
	profiles ProfileLinker,
	identities IdentityRecorder,
	channelSecret, appURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Log:           logger,
		Client:        client,
		Profiles:      profiles,
		Identities:    identities,
		ChannelSecret: channelSecret,
		AppURL:        appURL,
	}
}

// ServeVerify handles GET /api/line/webhook, used by the LINE console when
// registering the endpoint.
func (h *Handler) ServeVerify(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// ServeWebhook handles POST /api/line/webhook. The signature is an
// HMAC-SHA256 of the raw body keyed by the channel secret; anything that
// fails verification is rejected before parsing.
func (h *Handler) ServeWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, limits.MaxWebhookBodySize))
	if err != nil {
		respond.ErrorKind(w, apperr.Validation, "unreadable body")
		return
	}

	sig := r.Header.Get("x-line-signature")
	if !line.VerifySignature(h.ChannelSecret, body, sig) {
		h.Log.Warn("invalid webhook signature")
		respond.ErrorKind(w, apperr.NotAuthenticated, "invalid signature")
		return
	}

	var payload line.WebhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		respond.ErrorKind(w, apperr.Validation, "malformed webhook body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	for _, ev := range payload.Events {
		h.handleEvent(ctx, ev)
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleEvent(ctx context.Context, ev line.WebhookEvent) {
	lineUserID := ev.Source.UserID
	if lineUserID == "" {
		return
	}

	if ev.Type == "message" && ev.Message != nil && ev.Message.Type == "text" {
		text := strings.TrimSpace(ev.Message.Text)
		if linkingCodePattern.MatchString(text) {
			h.handleLinkingCode(ctx, ev, lineUserID, text)
			return
		}
		h.reply(ctx, ev.ReplyToken, line.UsageMessage(h.AppURL))
		return
	}

	if ev.Type == "follow" {
		h.reply(ctx, ev.ReplyToken, line.FollowMessage(h.AppURL))
	}
}

// handleLinkingCode completes the chat-side half of account linking: the
// user typed the 6-digit code issued in the app.
func (h *Handler) handleLinkingCode(ctx context.Context, ev line.WebhookEvent, lineUserID, code string) {
	if existing, err := h.Profiles.GetByLineUserID(ctx, lineUserID); err == nil {
		h.reply(ctx, ev.ReplyToken, line.AlreadyLinkedMessage(existing.Name))
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("line-linked lookup failed", zap.Error(err))
		h.reply(ctx, ev.ReplyToken, line.LinkFailedMessage)
		return
	}

	p, err := h.Profiles.GetByLinkingCode(ctx, code)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.reply(ctx, ev.ReplyToken, line.CodeNotFoundMessage)
		return
	}
	if err != nil {
		h.Log.Error("linking code lookup failed", zap.Error(err))
		h.reply(ctx, ev.ReplyToken, line.LinkFailedMessage)
		return
	}

	if p.LineLinkingCodeExpiresAt == nil || p.LineLinkingCodeExpiresAt.Before(time.Now()) {
		h.reply(ctx, ev.ReplyToken, line.CodeExpiredMessage)
		return
	}

	if err := h.Profiles.CompleteLineLink(ctx, p.ID, lineUserID); err != nil {
		h.Log.Error("line link completion failed", zap.Error(err), zap.String("user_id", p.ID.Hex()))
		h.reply(ctx, ev.ReplyToken, line.LinkFailedMessage)
		return
	}

	// Record the mapping; the profile link above already succeeded, so a
	// duplicate here only means an earlier attempt got this far.
	if _, err := h.Identities.Insert(ctx, models.UserIdentity{
		Provider:    models.ProviderLINE,
		ProviderUID: lineUserID,
		UserID:      p.ID,
	}); err != nil && !errors.Is(err, identitystore.ErrDuplicateIdentity) {
		h.Log.Error("identity insert failed", zap.Error(err), zap.String("user_id", p.ID.Hex()))
	}

	h.Log.Info("line account linked via chat code", zap.String("user_id", p.ID.Hex()))
	h.reply(ctx, ev.ReplyToken, line.LinkingSuccessMessage(p.Name))
}

func (h *Handler) reply(ctx context.Context, replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := h.Client.Reply(ctx, replyToken, text); err != nil {
		h.Log.Warn("webhook reply failed", zap.Error(err))
	}
}
