package journal

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	"github.com/Jaskaranbir/mem-bank-ledger/logger"
	"github.com/Jaskaranbir/mem-bank-ledger/model"
)

// flakyBus fails the first n publishes.
type flakyBus struct {
	Bus
	failures  int
	published []model.Event
}

func (b *flakyBus) Publish(msg interface{}) error {
	if b.failures > 0 {
		b.failures--
		return errors.New("bus unavailable")
	}
	b.published = append(b.published, msg.(model.Event))
	return nil
}

var _ = Describe("LoggedRepo", func() {
	var newEvent = func(aggID string) model.Event {
		event, err := model.NewEvent(&model.EventCfg{
			AggregateID: aggID,
			Action:      model.AccountCreated,
		})
		Expect(err).ToNot(HaveOccurred())
		return event
	}

	It("errors on invalid config", func() {
		_, err := NewLoggedRepo(&LoggedRepoCfg{
			Store: NewMemoryStore(),
		})
		Expect(err).To(HaveOccurred())
	})

	It("stores and publishes recorded events", func() {
		bus, err := NewMemoryBus(logger.NewLogger("EventBus"))
		Expect(err).ToNot(HaveOccurred())
		defer bus.Terminate()

		sub, err := bus.Subscribe(model.AccountCreated.String())
		Expect(err).ToNot(HaveOccurred())

		repo, err := NewLoggedRepo(&LoggedRepoCfg{
			Bus:   bus,
			Store: NewMemoryStore(),
		})
		Expect(err).ToNot(HaveOccurred())

		event := newEvent("100")
		Expect(repo.Record(event)).To(Succeed())

		var received interface{}
		Eventually(sub, time.Second).Should(Receive(&received))
		Expect(received.(model.Event).ID()).To(Equal(event.ID()))

		events, err := repo.Fetch("100")
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(HaveLen(1))
		Expect(repo.Pending()).To(BeZero())
	})

	It("retries pending events on next record", func() {
		bus := &flakyBus{failures: 1}
		repo, err := NewLoggedRepo(&LoggedRepoCfg{
			Bus:   bus,
			Store: NewMemoryStore(),
		})
		Expect(err).ToNot(HaveOccurred())

		first := newEvent("100")
		Expect(repo.Record(first)).ToNot(Succeed())
		Expect(repo.Pending()).To(Equal(1))

		second := newEvent("200")
		Expect(repo.Record(second)).To(Succeed())
		Expect(repo.Pending()).To(BeZero())

		Expect(bus.published).To(HaveLen(2))
		Expect(bus.published[0].ID()).To(Equal(first.ID()))
		Expect(bus.published[1].ID()).To(Equal(second.ID()))

		// Stored only once despite the retry
		events, err := repo.FetchByIndex(0)
		Expect(err).ToNot(HaveOccurred())
		Expect(events).To(HaveLen(2))
	})

	It("drops events which can never be stored", func() {
		bus := &flakyBus{}
		repo, err := NewLoggedRepo(&LoggedRepoCfg{
			Bus:   bus,
			Store: NewMemoryStore(),
		})
		Expect(err).ToNot(HaveOccurred())

		Expect(repo.Record(model.Event{})).ToNot(Succeed())
		Expect(repo.Pending()).To(BeZero())
		Expect(repo.Record(newEvent("100"))).To(Succeed())
	})
})
