package services

import (
	"context"
	"log/slog"
)

// Notification event types, mirrored by the platform's notification center.
const (
	NotifyExchangeRequest          = "exchange_request"
	NotifyExchangeConfirmed        = "exchange_confirmed"
	NotifyExchangeRejected         = "exchange_rejected"
	NotifyExchangePickedUp         = "exchange_picked_up"
	NotifyExchangeReturned         = "exchange_returned"
	NotifyExchangeCompleted        = "exchange_completed"
	NotifyExchangeCancelled        = "exchange_cancelled"
	NotifyExchangeRequestCancelled = "exchange_request_cancelled"
	NotifyExchangeFlagged          = "exchange_flagged"
	NotifyExchangeFlagResolved     = "exchange_flag_resolved"
	NotifyExchangeAdminArchived    = "exchange_admin_archived"
)

type Notification struct {
	TenantID       string
	RecipientID    string
	Type           string
	Title          string
	Message        string
	ActionRequired bool
	ListingID      string
	TransactionID  string
}

// Notifier delivers fire-and-forget event descriptions to the platform's
// notification dispatcher. Delivery failures must never roll back the write
// that triggered them.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// LogNotifier is the default dispatcher: it logs the event and leaves
// delivery to the surrounding platform.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	slog.InfoContext(ctx, "notification",
		slog.String("type", n.Type),
		slog.String("tenant_id", n.TenantID),
		slog.String("recipient_id", n.RecipientID),
		slog.String("listing_id", n.ListingID),
		slog.String("transaction_id", n.TransactionID),
		slog.String("title", n.Title),
	)
}
