package domain_test

import (
	"io"

	"github.com/pkg/errors"

	"github.com/Jaskaranbir/mem-bank-ledger/domain/audit"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/ledger"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/servicequeue"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/session"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/teller"
	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// ConfigProvider provides configs for various
// domain-entities (such as ledger, teller, listeners)
// for use in tests.
type ConfigProvider struct {
	Bus     journal.Bus
	Journal journal.Repo

	// Set by #AuditCfg.
	Trail *audit.Trail
}

// NewConfigProvider creates a ConfigProvider with
// a journal backed by provided bus.
func NewConfigProvider(bus journal.Bus) (*ConfigProvider, error) {
	repo, err := journal.NewLoggedRepo(&journal.LoggedRepoCfg{
		Bus:   bus,
		Store: journal.NewMemoryStore(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creating journal-repo")
	}

	return &ConfigProvider{
		Bus:     bus,
		Journal: repo,
	}, nil
}

// Teller provides a Teller over a fresh ledger and service-queue.
func (cp *ConfigProvider) Teller(validateAmounts bool) (*teller.Teller, error) {
	l, err := ledger.NewLedger(&ledger.Cfg{
		Log:             logger.NewLogger("ledger/Ledger"),
		Journal:         cp.Journal,
		ValidateAmounts: validateAmounts,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creating ledger")
	}
	q, err := servicequeue.NewQueue(&servicequeue.Cfg{
		Log:     logger.NewLogger("servicequeue/Queue"),
		Journal: cp.Journal,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creating service-queue")
	}

	t, err := teller.NewTeller(&teller.Cfg{
		Log:     logger.NewLogger("teller/Teller"),
		Ledger:  l,
		Queue:   q,
		Journal: cp.Journal,
	})
	return t, errors.Wrap(err, "error creating teller")
}

// AuditCfg provides config for testing the audit-listener.
func (cp *ConfigProvider) AuditCfg() (*audit.ListenerCfg, error) {
	trail, err := audit.NewTrail(&audit.TrailCfg{
		Log:     logger.NewLogger("audit/Trail"),
		Journal: cp.Journal,
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creating audit-trail")
	}
	cp.Trail = trail

	return &audit.ListenerCfg{
		Log:     logger.NewLogger("audit/Listener"),
		Bus:     cp.Bus,
		Actions: model.LedgerEvents,
		Trail:   trail,
	}, nil
}

// SessionCfg provides config for testing a session
// reading from r and writing to w.
func (cp *ConfigProvider) SessionCfg(
	handler session.CmdHandler,
	r io.Reader,
	w io.Writer,
) *session.Cfg {
	return &session.Cfg{
		Log:     logger.NewLogger("session/Session"),
		Reader:  r,
		Writer:  w,
		Handler: handler,
	}
}
