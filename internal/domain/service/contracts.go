package service

import (
	"context"

	"SMCAlert/internal/domain/models"
)

// AlertNotifier receives the alerts that survived a user's preference filter.
// Implementations decide the delivery channel (queue, push, chat webhook).
type AlertNotifier interface {
	NotifyAlerts(ctx context.Context, symbol string, alerts []models.Alert) error
}

// IndicatorSource supplies the pre-computed macro sub-scores blended by the
// sentiment composer.
type IndicatorSource interface {
	FetchIndicators(ctx context.Context) (models.SentimentInputs, error)
}
