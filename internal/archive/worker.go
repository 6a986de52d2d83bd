package archive

import (
	"context"
	"fmt"
	"time"

	"github.com/chungddong/ChurchFinance/internal/amqp"
	"github.com/chungddong/ChurchFinance/internal/log"
	"github.com/chungddong/ChurchFinance/internal/store"
	"golang.org/x/sync/errgroup"
)

// Worker keeps the archive in step with the record store. Change
// events drive incremental mirroring; a periodic full snapshot
// reconciles anything the events missed.
type Worker struct {
	store    *store.Store
	repo     *Repository
	client   *amqp.Client
	interval time.Duration
	logger   *log.Logger
}

func NewWorker(st *store.Store, repo *Repository, client *amqp.Client, interval time.Duration, logger *log.Logger) *Worker {
	return &Worker{
		store:    st,
		repo:     repo,
		client:   client,
		interval: interval,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// Run blocks until the context ends. It snapshots once at startup,
// then consumes change events and re-snapshots on the interval.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.snapshot(ctx); err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.client.ConsumeRecordChanges(ctx, func(msg *amqp.RecordChangeMessage) error {
			return w.HandleChange(ctx, msg)
		})
	})
	g.Go(func() error {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.snapshot(ctx); err != nil {
					w.logger.Error("Periodic snapshot failed", "error", err)
				}
			}
		}
	})
	return g.Wait()
}

// HandleChange mirrors one change event. The store is re-read first so
// the worker always archives the current record, not the one the
// event described.
func (w *Worker) HandleChange(ctx context.Context, msg *amqp.RecordChangeMessage) error {
	w.store.Reload()

	if msg.Op == store.OpReplaced {
		return w.snapshot(ctx)
	}
	if msg.Op == store.OpDeleted {
		return w.repo.DeleteRecord(ctx, msg.Collection, msg.ID)
	}

	switch msg.Collection {
	case store.CollectionMembers:
		m, ok := w.store.MemberByID(msg.ID)
		if !ok {
			// Deleted since the event was published.
			return w.repo.DeleteRecord(ctx, msg.Collection, msg.ID)
		}
		return w.repo.UpsertMember(ctx, m)
	case store.CollectionDonations:
		d, ok := w.store.DonationByID(msg.ID)
		if !ok {
			return w.repo.DeleteRecord(ctx, msg.Collection, msg.ID)
		}
		return w.repo.UpsertDonation(ctx, d)
	case store.CollectionExpenses:
		e, ok := w.store.ExpenseByID(msg.ID)
		if !ok {
			return w.repo.DeleteRecord(ctx, msg.Collection, msg.ID)
		}
		return w.repo.UpsertExpense(ctx, e)
	default:
		return fmt.Errorf("unknown collection %q", msg.Collection)
	}
}

func (w *Worker) snapshot(ctx context.Context) error {
	w.store.Reload()
	members := w.store.Members()
	donations := w.store.Donations()
	expenses := w.store.Expenses()

	if err := w.repo.Snapshot(ctx, members, donations, expenses); err != nil {
		return err
	}
	w.logger.Info("Archive snapshot complete",
		"members", len(members), "donations", len(donations), "expenses", len(expenses))
	return nil
}
