package domain

import (
	"context"
	"io"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/Jaskaranbir/mem-bank-ledger/domain/audit"
	"github.com/Jaskaranbir/mem-bank-ledger/domain/session"
	"github.com/Jaskaranbir/mem-bank-ledger/domain_test"
	"github.com/Jaskaranbir/mem-bank-ledger/journal"
	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

var _ = Describe("Domain E2E", func() {
	var (
		bus         *journal.MemoryBus
		cfgProvider *domain_test.ConfigProvider
		ioWriter    *domain_test.MockWriter

		auditCfg   *audit.ListenerCfg
		sessionCfg *session.Cfg
	)

	var setup = func(entries ...string) {
		var err error
		bus, err = journal.NewMemoryBus(logger.NewLogger("EventBus"))
		Expect(err).ToNot(HaveOccurred())
		cfgProvider, err = domain_test.NewConfigProvider(bus)
		Expect(err).ToNot(HaveOccurred())

		t, err := cfgProvider.Teller(true)
		Expect(err).ToNot(HaveOccurred())
		auditCfg, err = cfgProvider.AuditCfg()
		Expect(err).ToNot(HaveOccurred())

		ioWriter = domain_test.NewMockWriter()
		sessionCfg = cfgProvider.SessionCfg(t, domain_test.NewMockReader(entries...), ioWriter)
	}

	var run = func() error {
		return RunRoutines(context.Background(), &RoutinesCfg{
			Log:        logger.NewLogger("runner"),
			AuditCfg:   auditCfg,
			SessionCfg: sessionCfg,

			ShutdownTimeoutSec: 3,
		})
	}

	BeforeEach(func() {
		bus = nil
	})

	AfterEach(func() {
		if bus != nil {
			bus.Terminate()
		}
	})

	It("errors on invalid config", func() {
		err := RunRoutines(context.Background(), &RoutinesCfg{
			Log: logger.NewLogger("runner"),
		})
		Expect(err).To(HaveOccurred())
	})

	Specify("teller-session scenario", func() {
		setup(
			"1", "100", "Alice", "500",
			"2", "100", "50",
			"5", "100",
			"3", "100", "600",
			"1", "200", "Bob", "0",
			"4", "100", "200", "200",
			"4", "100", "999", "1",
			"6", "Carol",
			"7",
			"7",
			"8",
		)
		Expect(run()).To(Succeed())

		output := ioWriter.Content()
		for _, msg := range []string{
			"Account created successfully for Alice",
			"Deposited 50.00 into account 100",
			"Balance: 550.00",
			"Insufficient balance!",
			"Account created successfully for Bob",
			"Transfer successful!",
			"One or both accounts not found!",
			"Carol added to the service queue.",
			"Serving customer: Carol",
			"No customers in the queue.",
		} {
			Expect(output).To(ContainSubstring(msg))
		}
		Expect(output).To(HaveSuffix("Exiting...\n"))

		// Listener hydrates remaining events on shutdown
		trail := cfgProvider.Trail
		Expect(trail.Count(model.AccountCreated)).To(Equal(2))
		Expect(trail.Count(model.AccountDeposited)).To(Equal(1))
		Expect(trail.Count(model.AccountWithdrawn)).To(BeZero())
		Expect(trail.Count(model.FundsTransferred)).To(Equal(1))
		Expect(trail.Count(model.CustomerQueued)).To(Equal(1))
		Expect(trail.Count(model.CustomerServed)).To(Equal(1))
	})

	It("returns when input ends", func() {
		setup("6", "Dan")

		done := make(chan error, 1)
		go func() {
			done <- run()
		}()

		var err error
		Eventually(done, 5*time.Second).Should(Receive(&err))
		Expect(err).ToNot(HaveOccurred())
		Expect(cfgProvider.Trail.Index()).To(Equal(1))
	})

	It("shuts down cleanly when cancelled while session waits for input", func() {
		setup()
		pr, pw := io.Pipe()
		defer pw.Close()
		sessionCfg.Reader = pr

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- RunRoutines(ctx, &RoutinesCfg{
				Log:        logger.NewLogger("runner"),
				AuditCfg:   auditCfg,
				SessionCfg: sessionCfg,

				ShutdownTimeoutSec: 1,
			})
		}()

		Consistently(done, 200*time.Millisecond).ShouldNot(Receive())
		cancel()

		var err error
		Eventually(done, 500*time.Millisecond).Should(Receive(&err))
		Expect(err).ToNot(HaveOccurred())
	})
})
