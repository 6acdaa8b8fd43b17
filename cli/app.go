package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/Jaskaranbir/mem-bank-ledger/config"
	"github.com/Jaskaranbir/mem-bank-ledger/domain"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/audit"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/ledger"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/servicequeue"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/session"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/teller"
	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// runApp wires all components and runs domain-routines
// until the session ends.
func runApp(ctx context.Context, cfg *config.Config, r io.Reader, w io.Writer) error {
	log := logger.NewLogger("main")

	bus, err := journal.NewMemoryBus(logger.NewLogger("EventBus"))
	if err != nil {
		return errors.Wrap(err, "error creating memory-bus")
	}
	defer bus.Terminate()

	repo, err := journal.NewLoggedRepo(&journal.LoggedRepoCfg{
		Bus:   bus,
		Store: journal.NewMemoryStore(),
	})
	if err != nil {
		return errors.Wrap(err, "error creating journal-repo")
	}

	// ================== Ledger ==================
	l, err := ledger.NewLedger(&ledger.Cfg{
		Log:             logger.NewLogger("ledger/Ledger"),
		Journal:         repo,
		ValidateAmounts: cfg.ValidateAmounts,
	})
	if err != nil {
		return errors.Wrap(err, "error creating ledger")
	}

	// ================== ServiceQueue ==================
	q, err := servicequeue.NewQueue(&servicequeue.Cfg{
		Log:     logger.NewLogger("servicequeue/Queue"),
		Journal: repo,
	})
	if err != nil {
		return errors.Wrap(err, "error creating service-queue")
	}

	// ================== Teller ==================
	t, err := teller.NewTeller(&teller.Cfg{
		Log:     logger.NewLogger("teller/Teller"),
		Ledger:  l,
		Queue:   q,
		Journal: repo,
	})
	if err != nil {
		return errors.Wrap(err, "error creating teller")
	}

	// ================== Audit ==================
	trail, err := audit.NewTrail(&audit.TrailCfg{
		Log:     logger.NewLogger("audit/Trail"),
		Journal: repo,
	})
	if err != nil {
		return errors.Wrap(err, "error creating audit-trail")
	}

	// ================== Runner ==================
	err = domain.RunRoutines(ctx, &domain.RoutinesCfg{
		Log: logger.NewLogger("runner"),
		AuditCfg: &audit.ListenerCfg{
			Log:     logger.NewLogger("audit/Listener"),
			Bus:     bus,
			Actions: model.LedgerEvents,
			Trail:   trail,
		},
		SessionCfg: &session.Cfg{
			Log:      logger.NewLogger("session/Session"),
			Reader:   r,
			Writer:   w,
			Handler:  t,
			ShowMenu: cfg.ShowMenu,
		},

		ShutdownTimeoutSec: cfg.ShutdownTimeoutSec,
	})
	if err != nil {
		return errors.Wrap(err, "error running domain-routines")
	}

	log.Info(closingSummary(l, q, repo, trail))
	return nil
}

// closingSummary describes state left behind by a session.
func closingSummary(
	l *ledger.Ledger,
	q *servicequeue.Queue,
	repo *journal.LoggedRepo,
	trail *audit.Trail,
) string {
	ids := l.AccountIDs()

	counts := make([]string, 0, len(model.LedgerEvents))
	for _, action := range model.LedgerEvents {
		counts = append(counts, fmt.Sprintf("%s=%d", action, trail.Count(action)))
	}

	return fmt.Sprintf(
		"Session closed with %d account(s) %v, %d journaled event(s) [%s], "+
			"%d unpublished event(s), customers waiting: %v",
		len(ids), ids, trail.Index(), strings.Join(counts, " "),
		repo.Pending(), q.Pending(),
	)
}
