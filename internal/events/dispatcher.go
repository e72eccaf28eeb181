package events

import (
	"context"

	"go.uber.org/zap"
)

// TxRunner runs a function inside one transaction, committing on nil and
// rolling back on error.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher flushes a request's outbox after the primary command has
// committed and the response is complete. The whole drain runs in a single
// follow-up transaction so cascade effects land atomically.
type Dispatcher struct {
	tx  TxRunner
	pub *Publisher
	log *zap.Logger
}

func NewDispatcher(tx TxRunner, pub *Publisher, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{tx: tx, pub: pub, log: log}
}

// Flush drains the outbox in FIFO order inside one transaction. A handler
// error rolls the transaction back and is logged at error level; the
// remaining events are dropped. There is no retry and no dead-letter: the
// cascade fails loudly in the log rather than silently.
func (d *Dispatcher) Flush(ctx context.Context, outbox *Outbox) {
	if outbox == nil || outbox.Len() == 0 {
		return
	}

	err := d.tx.WithTx(ctx, func(txCtx context.Context) error {
		for {
			ev, ok := outbox.Dequeue()
			if !ok {
				return nil
			}
			if err := d.pub.Publish(txCtx, ev); err != nil {
				return err
			}
		}
	})
	if err != nil {
		d.log.Error("event cascade failed, rolled back", zap.Error(err))
	}
}
