// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxWebhookBodySize caps LINE webhook deliveries. The platform batches
	// events, but deliveries stay far below this.
	MaxWebhookBodySize = 1 << 20 // 1 MB

	// MaxReportBodySize caps report submissions (two task lists plus notes).
	MaxReportBodySize = 256 << 10 // 256 KB
)
