package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"SMCAlert/internal/domain/models"
	domsvc "SMCAlert/internal/domain/service"
	applogger "SMCAlert/pkg/logger"
	"SMCAlert/pkg/queue"
)

// DefaultMessageType is the queue message type for alert deliveries.
const DefaultMessageType = "alert_notification"

// AlertMessage is the queue payload for a single alert delivery.
type AlertMessage struct {
	Symbol    string    `json:"symbol"`
	Kind      string    `json:"kind"`
	Direction string    `json:"direction"`
	Priority  int       `json:"priority"`
	Quality   int       `json:"quality"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// QueueNotifier filters alerts through the delivery preferences and
// enqueues the survivors for the notification worker.
type QueueNotifier struct {
	q       queue.QueueService
	prefs   Preferences
	msgType string
	l       *applogger.Logger
}

func NewQueueNotifier(q queue.QueueService, prefs Preferences, msgType string, l *applogger.Logger) *QueueNotifier {
	if msgType == "" {
		msgType = DefaultMessageType
	}
	return &QueueNotifier{q: q, prefs: prefs, msgType: msgType, l: l}
}

var _ domsvc.AlertNotifier = (*QueueNotifier)(nil)

func (n *QueueNotifier) NotifyAlerts(ctx context.Context, symbol string, alerts []models.Alert) error {
	matched := n.prefs.Filter(alerts)
	if len(matched) == 0 {
		return nil
	}

	for _, a := range matched {
		msg := AlertMessage{
			Symbol:    symbol,
			Kind:      string(a.Kind),
			Direction: string(a.Direction),
			Priority:  a.Priority,
			Quality:   a.QualityScore,
			Text:      FormatAlert(symbol, a),
			Timestamp: a.SourceTimestamp,
		}
		if err := n.q.PublishMessage(ctx, n.msgType, msg); err != nil {
			return fmt.Errorf("enqueue alert for %s: %w", symbol, err)
		}
	}

	if n.l != nil {
		n.l.Debug("notify: alerts enqueued",
			applogger.String("symbol", symbol),
			applogger.Int("count", len(matched)),
		)
	}
	return nil
}

// NotifySummary enqueues a sweep summary as a low-urgency delivery.
func (n *QueueNotifier) NotifySummary(ctx context.Context, summary models.WatchlistSummary, score *models.SentimentScore) error {
	msg := AlertMessage{
		Kind:      "summary",
		Priority:  6,
		Text:      FormatSummary(summary, score),
		Timestamp: summary.Timestamp,
	}
	if err := n.q.PublishMessage(ctx, n.msgType, msg); err != nil {
		return fmt.Errorf("enqueue summary: %w", err)
	}
	return nil
}

// FormatSummary renders the sweep summary for chat channels.
func FormatSummary(s models.WatchlistSummary, score *models.SentimentScore) string {
	var b strings.Builder
	b.WriteString("Watchlist sweep\n")
	fmt.Fprintf(&b, "Analyzed: %d | buy %d, sell %d, mixed %d, hold %d\n", s.Analyzed, s.Buys, s.Sells, s.Mixed, s.Holds)
	fmt.Fprintf(&b, "Market bias: %s", strings.ToUpper(string(s.Bias)))
	if score != nil {
		fmt.Fprintf(&b, "\nSentiment: %d/100 (%s)", score.Value, score.Recommendation)
	}
	if len(s.Errors) > 0 {
		fmt.Fprintf(&b, "\nFailed symbols: %d", len(s.Errors))
	}
	return b.String()
}

// FormatAlert renders one alert as a chat message line.
func FormatAlert(symbol string, a models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s %s", symbol, strings.ToUpper(string(a.Kind)), strings.ToUpper(string(a.Direction)))
	if a.Message != "" {
		fmt.Fprintf(&b, ": %s", a.Message)
	}
	if a.DistancePct != nil {
		fmt.Fprintf(&b, " (%.2f%% away)", *a.DistancePct)
	}
	fmt.Fprintf(&b, " | quality %d", a.QualityScore)
	return b.String()
}

// AlertJob is the queue worker that turns enqueued alert messages into
// channel deliveries.
type AlertJob struct {
	sender  *Sender
	msgType string
	l       *applogger.Logger
}

func NewAlertJob(sender *Sender, msgType string, l *applogger.Logger) *AlertJob {
	if msgType == "" {
		msgType = DefaultMessageType
	}
	return &AlertJob{sender: sender, msgType: msgType, l: l}
}

var _ queue.Job = (*AlertJob)(nil)

func (j *AlertJob) Name() string { return "alert-delivery" }

func (j *AlertJob) Type() string { return j.msgType }

func (j *AlertJob) Handle(ctx context.Context, payload interface{}) error {
	msg, err := queue.ParsePayload[AlertMessage](payload)
	if err != nil {
		return fmt.Errorf("parse alert payload: %w", err)
	}

	if err := j.sender.Send(ctx, msg.Text, msg.Priority); err != nil {
		if j.l != nil {
			j.l.Error("notify: delivery failed",
				applogger.String("symbol", msg.Symbol),
				applogger.Error(err),
			)
		}
		return err
	}
	return nil
}
