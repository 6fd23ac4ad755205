package line

// WebhookBody is the envelope LINE posts to the webhook endpoint.
type WebhookBody struct {
	Events []WebhookEvent `json:"events"`
}

// WebhookEvent is a single event within a webhook delivery. Only the fields
// the application consumes are declared.
type WebhookEvent struct {
	Type       string          `json:"type"`
	ReplyToken string          `json:"replyToken,omitempty"`
	Source     WebhookSource   `json:"source"`
	Message    *WebhookMessage `json:"message,omitempty"`
}

// WebhookSource identifies where an event originated.
type WebhookSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId,omitempty"`
}

// WebhookMessage is the message payload of a message event.
type WebhookMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}
