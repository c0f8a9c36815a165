package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"SMCAlert/internal/domain/models"
)

type fakeQueue struct {
	types    []string
	payloads []interface{}
	err      error
}

func (f *fakeQueue) PublishMessage(_ context.Context, msgType string, payload interface{}) error {
	if f.err != nil {
		return f.err
	}
	f.types = append(f.types, msgType)
	f.payloads = append(f.payloads, payload)
	return nil
}

func TestQueueNotifierEnqueuesMatchedAlerts(t *testing.T) {
	q := &fakeQueue{}
	prefs := NewPreferences(nil, 50, false, false)
	n := NewQueueNotifier(q, prefs, "", nil)

	alerts := []models.Alert{
		{Kind: models.AlertEntry, Direction: models.AlertBuy, Priority: 1, QualityScore: 80, SourceTimestamp: time.Now()},
		{Kind: models.AlertZone, Direction: models.AlertSell, Priority: 6, QualityScore: 30},
	}

	if err := n.NotifyAlerts(context.Background(), "AAPL", alerts); err != nil {
		t.Fatalf("NotifyAlerts: %v", err)
	}
	if len(q.payloads) != 1 {
		t.Fatalf("published %d messages, want 1", len(q.payloads))
	}
	if q.types[0] != DefaultMessageType {
		t.Errorf("message type = %q, want %q", q.types[0], DefaultMessageType)
	}

	msg, ok := q.payloads[0].(AlertMessage)
	if !ok {
		t.Fatalf("payload type = %T, want AlertMessage", q.payloads[0])
	}
	if msg.Symbol != "AAPL" || msg.Kind != "entry" || msg.Quality != 80 {
		t.Errorf("payload = %+v", msg)
	}
}

func TestQueueNotifierNoMatchesNoPublish(t *testing.T) {
	q := &fakeQueue{}
	prefs := NewPreferences([]models.AlertKind{models.AlertEntry}, 0, false, false)
	n := NewQueueNotifier(q, prefs, "", nil)

	alerts := []models.Alert{{Kind: models.AlertZone, QualityScore: 90}}
	if err := n.NotifyAlerts(context.Background(), "MSFT", alerts); err != nil {
		t.Fatalf("NotifyAlerts: %v", err)
	}
	if len(q.payloads) != 0 {
		t.Errorf("published %d messages, want 0", len(q.payloads))
	}
}

func TestFormatAlert(t *testing.T) {
	dist := 1.25
	a := models.Alert{
		Kind:         models.AlertNear,
		Direction:    models.AlertBuy,
		QualityScore: 72,
		DistancePct:  &dist,
		Message:      "price near bullish order block",
	}

	got := FormatAlert("TSLA", a)
	for _, want := range []string{"[TSLA]", "NEAR BUY", "price near bullish order block", "(1.25% away)", "quality 72"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatAlert missing %q in %q", want, got)
		}
	}
}

func TestNtfyPriorityMapping(t *testing.T) {
	cases := map[int]int{1: 5, 2: 4, 3: 3, 4: 3, 5: 2, 6: 2}
	for in, want := range cases {
		if got := ntfyPriority(in); got != want {
			t.Errorf("ntfyPriority(%d) = %d, want %d", in, got, want)
		}
	}
}
