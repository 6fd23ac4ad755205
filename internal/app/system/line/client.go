// Package line wraps the LINE Messaging and Login APIs: outbound push,
// multicast and reply messages, webhook signature verification, and the
// Login code/profile exchange used by the auth callback.
package line

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	messagingAPIBase = "https://api.line.me/v2/bot"
	tokenEndpoint    = "https://api.line.me/oauth2/v2.1/token"
	profileEndpoint  = "https://api.line.me/v2/profile"
	authorizeURL     = "https://access.line.me/oauth2/v2.1/authorize"
)

// Client calls the LINE Messaging API with a channel access token.
// The zero value is unusable; construct with NewClient.
type Client struct {
	accessToken string
	httpClient  *http.Client
	log         *zap.Logger
}

// NewClient builds a Messaging API client. An empty access token yields a
// client whose sends fail with a configuration error, so a missing secret
// disables notifications without touching any other feature.
func NewClient(channelAccessToken string, logger *zap.Logger) *Client {
	return &Client{
		accessToken: channelAccessToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		log:         logger,
	}
}

// IsConfigured reports whether a channel access token is present.
func (c *Client) IsConfigured() bool { return c.accessToken != "" }

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) error {
	if !c.IsConfigured() {
		return fmt.Errorf("line channel access token is not configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal line payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, messagingAPIBase+endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("line request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.log.Warn("line api error",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", detail))
		return fmt.Errorf("line api returned status %d", resp.StatusCode)
	}
	return nil
}

// Push sends a text message to a single LINE user.
func (c *Client) Push(ctx context.Context, lineUserID, text string) error {
	return c.post(ctx, "/message/push", map[string]any{
		"to":       lineUserID,
		"messages": []textMessage{{Type: "text", Text: text}},
	})
}

// Multicast sends a text message to several LINE users at once. Sending to
// an empty list is a no-op.
func (c *Client) Multicast(ctx context.Context, lineUserIDs []string, text string) error {
	if len(lineUserIDs) == 0 {
		return nil
	}
	return c.post(ctx, "/message/multicast", map[string]any{
		"to":       lineUserIDs,
		"messages": []textMessage{{Type: "text", Text: text}},
	})
}

// Reply answers a webhook event using its reply token.
func (c *Client) Reply(ctx context.Context, replyToken, text string) error {
	return c.post(ctx, "/message/reply", map[string]any{
		"replyToken": replyToken,
		"messages":   []textMessage{{Type: "text", Text: text}},
	})
}

/*─────────────────────────────────────────────────────────────────────────────*
| LINE Login (OAuth)                                                          |
*─────────────────────────────────────────────────────────────────────────────*/

// LoginClient performs the LINE Login code exchange and profile fetch for
// the auth callback. It is separate from Client because Login uses its own
// channel credentials.
type LoginClient struct {
	ChannelID     string
	ChannelSecret string
	RedirectURL   string

	httpClient *http.Client
}

// NewLoginClient builds a Login client. RedirectURL must match the callback
// registered on the LINE channel.
func NewLoginClient(channelID, channelSecret, redirectURL string) *LoginClient {
	return &LoginClient{
		ChannelID:     channelID,
		ChannelSecret: channelSecret,
		RedirectURL:   redirectURL,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured reports whether both channel credentials are present.
func (c *LoginClient) IsConfigured() bool {
	return c.ChannelID != "" && c.ChannelSecret != ""
}

// AuthCodeURL builds the authorize redirect for the given state.
func (c *LoginClient) AuthCodeURL(state string) string {
	q := url.Values{
		"response_type": {"code"},
		"client_id":     {c.ChannelID},
		"redirect_uri":  {c.RedirectURL},
		"state":         {state},
		"scope":         {"profile openid"},
	}
	return authorizeURL + "?" + q.Encode()
}

// Profile is the subset of the LINE profile the application uses.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	PictureURL  string `json:"pictureUrl,omitempty"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token,omitempty"`
}

// Exchange trades an authorization code for an access token.
func (c *LoginClient) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {c.RedirectURL},
		"client_id":     {c.ChannelID},
		"client_secret": {c.ChannelSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("line token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("line token exchange returned status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode line token response: %w", err)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("line token response contained no access token")
	}
	return tok.AccessToken, nil
}

// FetchProfile retrieves the authenticated user's LINE profile.
func (c *LoginClient) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch line profile failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("line profile endpoint returned status %d", resp.StatusCode)
	}

	var p Profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("decode line profile: %w", err)
	}
	if p.UserID == "" {
		return nil, fmt.Errorf("line profile contained no user id")
	}
	return &p, nil
}
