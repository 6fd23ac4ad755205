package linewebhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/workhubhq/workhub/internal/app/system/line"
	"github.com/workhubhq/workhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const testSecret = "test-channel-secret"

func testHandler() *Handler {
	return NewHandler(
		line.NewClient("", zap.NewNop()),
		nil, nil,
		testSecret, "https://app.example.com",
		zap.NewNop(),
	)
}

type fakeReplier struct {
	replies []string
}

func (f *fakeReplier) Reply(_ context.Context, _, text string) error {
	f.replies = append(f.replies, text)
	return nil
}

type fakeProfiles struct {
	byLineUID map[string]*models.Profile
	byCode    map[string]*models.Profile
	linked    []string
}

func (f *fakeProfiles) GetByLineUserID(_ context.Context, uid string) (*models.Profile, error) {
	if p, ok := f.byLineUID[uid]; ok {
		return p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProfiles) GetByLinkingCode(_ context.Context, code string) (*models.Profile, error) {
	if p, ok := f.byCode[code]; ok {
		return p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeProfiles) CompleteLineLink(_ context.Context, id primitive.ObjectID, uid string) error {
	f.linked = append(f.linked, id.Hex()+":"+uid)
	return nil
}

type fakeIdentities struct {
	inserted []models.UserIdentity
}

func (f *fakeIdentities) Insert(_ context.Context, ident models.UserIdentity) (models.UserIdentity, error) {
	f.inserted = append(f.inserted, ident)
	return ident, nil
}

// linkingHandler wires fakes for the chat-side linking flows.
func linkingHandler(profiles *fakeProfiles, replier *fakeReplier, identities *fakeIdentities) *Handler {
	return NewHandler(replier, profiles, identities, testSecret, "https://app.example.com", zap.NewNop())
}

func postSigned(h *Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/line/webhook", strings.NewReader(body))
	req.Header.Set("x-line-signature", line.SignBody(testSecret, []byte(body)))
	rec := httptest.NewRecorder()
	h.ServeWebhook(rec, req)
	return rec
}

func textEvent(uid, text string) string {
	return `{"events":[{"type":"message","replyToken":"rt-1","source":{"type":"user","userId":"` +
		uid + `"},"message":{"type":"text","text":"` + text + `"}}]}`
}

func TestServeVerify(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest("GET", "/api/line/webhook", nil)
	rec := httptest.NewRecorder()

	h.ServeVerify(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"status":"OK"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServeWebhookRejectsMissingSignature(t *testing.T) {
	h := testHandler()

	req := httptest.NewRequest("POST", "/api/line/webhook", strings.NewReader(`{"events":[]}`))
	rec := httptest.NewRecorder()

	h.ServeWebhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestServeWebhookRejectsBadSignature(t *testing.T) {
	h := testHandler()

	body := `{"events":[]}`
	req := httptest.NewRequest("POST", "/api/line/webhook", strings.NewReader(body))
	req.Header.Set("x-line-signature", line.SignBody("wrong-secret", []byte(body)))
	rec := httptest.NewRecorder()

	h.ServeWebhook(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestServeWebhookAcceptsSignedEmptyDelivery(t *testing.T) {
	h := testHandler()

	body := `{"events":[]}`
	req := httptest.NewRequest("POST", "/api/line/webhook", strings.NewReader(body))
	req.Header.Set("x-line-signature", line.SignBody(testSecret, []byte(body)))
	rec := httptest.NewRecorder()

	h.ServeWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"success":true`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestServeWebhookRejectsMalformedSignedBody(t *testing.T) {
	h := testHandler()

	body := `not json`
	req := httptest.NewRequest("POST", "/api/line/webhook", strings.NewReader(body))
	req.Header.Set("x-line-signature", line.SignBody(testSecret, []byte(body)))
	rec := httptest.NewRecorder()

	h.ServeWebhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestServeWebhookLinksValidCode(t *testing.T) {
	expiry := time.Now().Add(5 * time.Minute)
	p := &models.Profile{
		ID:                       primitive.NewObjectID(),
		Name:                     "田中",
		LineLinkingCodeExpiresAt: &expiry,
	}
	profiles := &fakeProfiles{
		byLineUID: map[string]*models.Profile{},
		byCode:    map[string]*models.Profile{"123456": p},
	}
	replier := &fakeReplier{}
	identities := &fakeIdentities{}
	h := linkingHandler(profiles, replier, identities)

	rec := postSigned(h, textEvent("U-line-1", "123456"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if len(profiles.linked) != 1 || profiles.linked[0] != p.ID.Hex()+":U-line-1" {
		t.Errorf("link calls = %v", profiles.linked)
	}
	if len(identities.inserted) != 1 ||
		identities.inserted[0].Provider != models.ProviderLINE ||
		identities.inserted[0].ProviderUID != "U-line-1" ||
		identities.inserted[0].UserID != p.ID {
		t.Errorf("identity inserts = %+v", identities.inserted)
	}
	if len(replier.replies) != 1 || !strings.Contains(replier.replies[0], "連携が完了") {
		t.Errorf("replies = %q", replier.replies)
	}
}

func TestServeWebhookRepliesExpiredCode(t *testing.T) {
	expiry := time.Now().Add(-time.Minute)
	p := &models.Profile{
		ID:                       primitive.NewObjectID(),
		Name:                     "田中",
		LineLinkingCodeExpiresAt: &expiry,
	}
	profiles := &fakeProfiles{
		byLineUID: map[string]*models.Profile{},
		byCode:    map[string]*models.Profile{"123456": p},
	}
	replier := &fakeReplier{}
	h := linkingHandler(profiles, replier, &fakeIdentities{})

	postSigned(h, textEvent("U-line-1", "123456"))

	if len(profiles.linked) != 0 {
		t.Errorf("expired code must not link: %v", profiles.linked)
	}
	if len(replier.replies) != 1 || !strings.Contains(replier.replies[0], "有効期限") {
		t.Errorf("replies = %q", replier.replies)
	}
}

func TestServeWebhookRepliesUnknownCode(t *testing.T) {
	profiles := &fakeProfiles{
		byLineUID: map[string]*models.Profile{},
		byCode:    map[string]*models.Profile{},
	}
	replier := &fakeReplier{}
	h := linkingHandler(profiles, replier, &fakeIdentities{})

	postSigned(h, textEvent("U-line-1", "654321"))

	if len(profiles.linked) != 0 {
		t.Errorf("unknown code must not link: %v", profiles.linked)
	}
	if len(replier.replies) != 1 || !strings.Contains(replier.replies[0], "見つかりません") {
		t.Errorf("replies = %q", replier.replies)
	}
}

func TestServeWebhookRepliesAlreadyLinked(t *testing.T) {
	linked := &models.Profile{ID: primitive.NewObjectID(), Name: "佐藤"}
	profiles := &fakeProfiles{
		byLineUID: map[string]*models.Profile{"U-line-1": linked},
		byCode:    map[string]*models.Profile{},
	}
	replier := &fakeReplier{}
	h := linkingHandler(profiles, replier, &fakeIdentities{})

	postSigned(h, textEvent("U-line-1", "123456"))

	if len(profiles.linked) != 0 {
		t.Errorf("already-linked account must not relink: %v", profiles.linked)
	}
	if len(replier.replies) != 1 || !strings.Contains(replier.replies[0], "佐藤") {
		t.Errorf("replies = %q", replier.replies)
	}
}

func TestServeWebhookAnswersFreeFormText(t *testing.T) {
	profiles := &fakeProfiles{
		byLineUID: map[string]*models.Profile{},
		byCode:    map[string]*models.Profile{},
	}
	replier := &fakeReplier{}
	h := linkingHandler(profiles, replier, &fakeIdentities{})

	postSigned(h, textEvent("U-line-1", "hello"))

	if len(replier.replies) != 1 || !strings.Contains(replier.replies[0], "6桁のコード") {
		t.Errorf("replies = %q", replier.replies)
	}
}

func TestServeWebhookSkipsEventsWithoutUser(t *testing.T) {
	h := testHandler()

	// A sourceless event must be ignored without touching the stores
	// (which are nil here).
	body := `{"events":[{"type":"message","source":{"type":"group"},"message":{"type":"text","text":"123456"}}]}`
	req := httptest.NewRequest("POST", "/api/line/webhook", strings.NewReader(body))
	req.Header.Set("x-line-signature", line.SignBody(testSecret, []byte(body)))
	rec := httptest.NewRecorder()

	h.ServeWebhook(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
