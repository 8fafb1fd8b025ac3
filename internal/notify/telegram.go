// Package notify delivers new-release messages to a Telegram channel.
// Delivery is best effort: failures are classified and logged, never
// retried, and never block the rest of the run.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/realmeupdater/realme-updates-tracker/internal/update"
)

const defaultAPIBase = "https://api.telegram.org"

// Status classifies the messaging endpoint's response.
type Status int

// Delivery outcomes, mapped from the Bot API response codes.
const (
	StatusDelivered    Status = iota // 200
	StatusBadRequest                 // 400: bad recipient or message format
	StatusUnauthorized               // 401: wrong or revoked token
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusDelivered:
		return "delivered"
	case StatusBadRequest:
		return "bad_request"
	case StatusUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Config holds the Telegram endpoint parameters.
type Config struct {
	BotToken string `mapstructure:"bot_token"`
	Chat     string `mapstructure:"chat"`
	// APIBase overrides the Bot API host, for tests.
	APIBase string `mapstructure:"api_base"`
	// SiteURL is the tracker website linked from every message.
	SiteURL string `mapstructure:"site_url"`
	// DryRun logs messages instead of delivering them.
	DryRun bool `mapstructure:"dry_run"`
}

// Notifier posts formatted messages to the Telegram Bot API.
type Notifier struct {
	cfg    Config
	client *http.Client
	logger *zap.Logger
}

// New builds a Notifier.
func New(cfg Config, logger *zap.Logger) *Notifier {
	if cfg.APIBase == "" {
		cfg.APIBase = defaultAPIBase
	}
	return &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Message renders the notification text for one new release.
func (n *Notifier) Message(record update.UpdateRecord) string {
	site := n.cfg.SiteURL
	var b strings.Builder
	b.WriteString("New update available!\n")
	fmt.Fprintf(&b, "*Device:* %s \n", record.Device)
	fmt.Fprintf(&b, "*Codename:* #%s \n", record.Codename)
	fmt.Fprintf(&b, "*Region:* [%s](%s/downloads/latest/%s)\n", record.Region, site, record.Region)
	fmt.Fprintf(&b, "*System:* %s \n", record.System)
	fmt.Fprintf(&b, "*Version:* `%s` \n", record.Version)
	fmt.Fprintf(&b, "*Release Date:* %s \n", record.Date)
	fmt.Fprintf(&b, "*Size*: %s \n", record.Size)
	fmt.Fprintf(&b, "*MD5*: `%s`\n", record.MD5)
	fmt.Fprintf(&b, "*Download*: [Here](%s)\n", record.Download)
	fmt.Fprintf(&b, "*Changelog*: ```\n%s\n```\n", record.Changelog)
	fmt.Fprintf(&b, "[Latest Updates](%s/downloads/latest/%s/) - ", site, record.Codename)
	fmt.Fprintf(&b, "[All Updates](%s/downloads/archive/%s/)\n", site, record.Codename)
	b.WriteString("@RealmeUpdatesTracker")
	return b.String()
}

// Send posts a rendered message to the channel and classifies the response.
// A non-delivered status is reported through the returned Status, not an
// error; errors are reserved for transport failures.
func (n *Notifier) Send(ctx context.Context, message string) (Status, error) {
	if n.cfg.DryRun {
		n.logger.Info("Dry run; skipping delivery", zap.Int("message_bytes", len(message)))
		return StatusDelivered, nil
	}

	params := url.Values{
		"chat_id":                  {n.cfg.Chat},
		"text":                     {message},
		"parse_mode":               {"Markdown"},
		"disable_web_page_preview": {"yes"},
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.APIBase, n.cfg.BotToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return StatusUnknown, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return StatusUnknown, fmt.Errorf("post message: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	status := classify(resp.StatusCode)
	switch status {
	case StatusDelivered:
	case StatusBadRequest:
		n.logger.Warn("Bad recipient or wrong text format")
	case StatusUnauthorized:
		n.logger.Warn("Wrong or unauthorized token")
	default:
		n.logger.Warn("Unknown delivery error", zap.String("response", resp.Status))
	}
	return status, nil
}

func classify(code int) Status {
	switch code {
	case http.StatusOK:
		return StatusDelivered
	case http.StatusBadRequest:
		return StatusBadRequest
	case http.StatusUnauthorized:
		return StatusUnauthorized
	default:
		return StatusUnknown
	}
}
