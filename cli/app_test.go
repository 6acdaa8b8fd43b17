package cli

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/Jaskaranbir/mem-bank-ledger/domain/audit"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/ledger"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/servicequeue"
	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
)

var _ = Describe("closingSummary", func() {
	It("reports accounts, journal and waiting customers", func() {
		bus, err := journal.NewMemoryBus(logger.NewLogger("EventBus"))
		Expect(err).ToNot(HaveOccurred())
		defer bus.Terminate()

		repo, err := journal.NewLoggedRepo(&journal.LoggedRepoCfg{
			Bus:   bus,
			Store: journal.NewMemoryStore(),
		})
		Expect(err).ToNot(HaveOccurred())
		l, err := ledger.NewLedger(&ledger.Cfg{
			Log:             logger.NewLogger("ledger/Ledger"),
			Journal:         repo,
			ValidateAmounts: true,
		})
		Expect(err).ToNot(HaveOccurred())
		q, err := servicequeue.NewQueue(&servicequeue.Cfg{
			Log:     logger.NewLogger("servicequeue/Queue"),
			Journal: repo,
		})
		Expect(err).ToNot(HaveOccurred())
		trail, err := audit.NewTrail(&audit.TrailCfg{
			Log:     logger.NewLogger("audit/Trail"),
			Journal: repo,
		})
		Expect(err).ToNot(HaveOccurred())

		Expect(l.CreateAccount(200, "Bob", decimal.Zero)).To(Succeed())
		Expect(l.CreateAccount(100, "Alice", decimal.NewFromInt(5))).To(Succeed())
		Expect(q.Enqueue("Carol")).To(Succeed())
		Expect(q.Enqueue("Dan")).To(Succeed())
		Expect(trail.Hydrate()).To(Succeed())

		summary := closingSummary(l, q, repo, trail)
		Expect(summary).To(ContainSubstring("2 account(s) [100 200]"))
		Expect(summary).To(ContainSubstring("4 journaled event(s)"))
		Expect(summary).To(ContainSubstring("AccountCreated=2"))
		Expect(summary).To(ContainSubstring("CustomerQueued=2"))
		Expect(summary).To(ContainSubstring("CustomerServed=0"))
		Expect(summary).To(ContainSubstring("0 unpublished event(s)"))
		Expect(summary).To(ContainSubstring("customers waiting: [Carol Dan]"))
	})
})
