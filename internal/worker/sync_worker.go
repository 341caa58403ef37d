package worker

import (
	"context"
	"fmt"
	"time"

	"amlyspay/internal/amqp"
	"amlyspay/internal/cache"
	"amlyspay/internal/log"
	"amlyspay/internal/sheets"
)

const (
	seenMessagesSize = 1024
	seenMessagesTTL  = 24 * time.Hour
)

// SyncWorker exports spend messages to the spreadsheet.
type SyncWorker struct {
	sheets sheets.SpendWriter
	seen   *cache.LRUCache[string]
	logger *log.Logger
}

func NewSyncWorker(writer sheets.SpendWriter, logger *log.Logger) *SyncWorker {
	if logger == nil {
		logger = log.Default()
	}
	return &SyncWorker{
		sheets: writer,
		seen:   cache.NewLRUCache[string](seenMessagesSize, seenMessagesTTL),
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// Cleaner exposes the duplicate-message cache for periodic expiry.
func (w *SyncWorker) Cleaner() cache.Cleaner {
	return w.seen
}

// HandleSpendMessage appends one row per message. A message already written
// is acknowledged without writing again, so a redelivery after a lost ack
// does not duplicate the row.
func (w *SyncWorker) HandleSpendMessage(ctx context.Context, msg *amqp.SpendMessage) error {
	if ref, ok := w.seen.Get(msg.ID); ok {
		w.logger.InfoContext(ctx, "Skipping already exported spend message", "message_id", msg.ID, "sheets_ref", ref)
		return nil
	}

	ref, err := w.sheets.AppendSpend(ctx, msg.Event)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}
	w.seen.Set(msg.ID, ref)

	w.logger.InfoContext(ctx, "Exported spend",
		"message_id", msg.ID,
		"sheets_ref", ref,
		log.FieldExpenseID, msg.Event.ExpenseID,
		log.FieldAmount, msg.Event.Amount)
	return nil
}
