package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"SMCAlert/internal/service/metrics"
	"SMCAlert/internal/service/ratelimit"
	"SMCAlert/pkg/config"
	xhttp "SMCAlert/pkg/http"
	applogger "SMCAlert/pkg/logger"
)

const (
	rateLimitKey   = "notify:outbound"
	sendTimeout    = 10 * time.Second
	telegramAPIFmt = "https://api.telegram.org/bot%s/sendMessage"
)

// Sender delivers alert messages to the configured channels. A single
// token bucket caps the combined outbound rate so a busy sweep cannot
// flood the chat channels.
type Sender struct {
	client     *xhttp.Client
	limiter    *ratelimit.Limiter
	l          *applogger.Logger
	ratePerMin float64

	telegramBot  string
	telegramChat string
	discordHook  string
	ntfyTopicURL string
}

type SenderOption func(*Sender)

func WithLimiter(rl *ratelimit.Limiter) SenderOption {
	return func(s *Sender) { s.limiter = rl }
}

func WithSenderLogger(l *applogger.Logger) SenderOption {
	return func(s *Sender) { s.l = l }
}

func NewSender(cfg *config.Config, opts ...SenderOption) *Sender {
	s := &Sender{
		client:       xhttp.NewClient(xhttp.WithTimeout(sendTimeout)),
		limiter:      ratelimit.New(),
		ratePerMin:   float64(cfg.Notify.RatePerMin),
		telegramBot:  cfg.Notify.TelegramBot,
		telegramChat: cfg.Notify.TelegramChat,
		discordHook:  cfg.Notify.DiscordHook,
		ntfyTopicURL: cfg.Notify.NtfyTopicURL,
	}
	if s.ratePerMin <= 0 {
		s.ratePerMin = 10
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send pushes message to every configured channel. Urgency comes from
// the alert priority (1 = most urgent). Returns an error only when all
// configured channels fail; a rate-limited call is dropped silently.
func (s *Sender) Send(ctx context.Context, message string, priority int) error {
	if !s.limiter.Allow(rateLimitKey, s.ratePerMin, s.ratePerMin/60) {
		if s.l != nil {
			s.l.Warn("notify: rate limited, dropping message")
		}
		return nil
	}

	var sent int
	var lastErr error

	if s.telegramBot != "" && s.telegramChat != "" {
		if err := s.sendTelegram(ctx, message, priority); err != nil {
			lastErr = err
			s.logSendError("telegram", err)
		} else {
			sent++
			metrics.NotificationsSent.WithLabelValues("telegram").Inc()
		}
	}

	if s.discordHook != "" {
		if err := s.sendDiscord(ctx, message, priority); err != nil {
			lastErr = err
			s.logSendError("discord", err)
		} else {
			sent++
			metrics.NotificationsSent.WithLabelValues("discord").Inc()
		}
	}

	if s.ntfyTopicURL != "" {
		if err := s.sendNtfy(ctx, message, priority); err != nil {
			lastErr = err
			s.logSendError("ntfy", err)
		} else {
			sent++
			metrics.NotificationsSent.WithLabelValues("ntfy").Inc()
		}
	}

	if sent == 0 && lastErr != nil {
		return fmt.Errorf("all channels failed: %w", lastErr)
	}
	return nil
}

func (s *Sender) sendTelegram(ctx context.Context, message string, priority int) error {
	payload := map[string]interface{}{
		"chat_id":    s.telegramChat,
		"text":       message,
		"parse_mode": "HTML",
		// Low-urgency alerts arrive without a chime.
		"disable_notification": priority > 4,
	}
	return s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf(telegramAPIFmt, s.telegramBot),
		Body:   payload,
	}, nil)
}

func (s *Sender) sendDiscord(ctx context.Context, message string, priority int) error {
	var payload interface{}
	if priority <= 2 {
		payload = map[string]interface{}{
			"username": "SMC Alert",
			"embeds": []map[string]interface{}{{
				"title":       "Alert",
				"description": message,
				"color":       0xFF0000,
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
			}},
		}
	} else {
		payload = map[string]interface{}{
			"username": "SMC Alert",
			"content":  message,
		}
	}
	return s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    s.discordHook,
		Body:   payload,
	}, nil)
}

func (s *Sender) sendNtfy(ctx context.Context, message string, priority int) error {
	return s.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    s.ntfyTopicURL,
		Headers: map[string]string{
			"Title":    "SMC Alert",
			"Priority": strconv.Itoa(ntfyPriority(priority)),
			"Tags":     "chart_with_upwards_trend",
		},
		Body: message,
	}, nil)
}

// ntfyPriority maps alert urgency (1 = highest) onto ntfy's 1-5 scale
// (5 = highest).
func ntfyPriority(alertPriority int) int {
	switch {
	case alertPriority <= 1:
		return 5
	case alertPriority == 2:
		return 4
	case alertPriority <= 4:
		return 3
	default:
		return 2
	}
}

func (s *Sender) logSendError(channel string, err error) {
	if s.l == nil {
		return
	}
	s.l.Error("notify: send failed",
		applogger.String("channel", channel),
		applogger.Error(err),
	)
}
