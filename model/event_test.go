package model

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewEvent", func() {
	It("should set time if not already set", func() {
		event, err := NewEvent(&EventCfg{
			AggregateID: "100",
			Action:      AccountCreated,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(event.Time().IsZero()).To(BeFalse())
		Expect(event.ID()).ToNot(BeEmpty())
	})

	It("should use existing time if already set", func() {
		t := time.Now()
		event, err := NewEvent(&EventCfg{
			AggregateID: "100",
			Time:        t,
			Action:      AccountCreated,
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(event.Time().UnixNano()).To(Equal(t.UnixNano()))
	})

	It("errors when aggregate-id is blank", func() {
		_, err := NewEvent(&EventCfg{
			Action: AccountCreated,
		})
		Expect(err).To(HaveOccurred())
	})

	Context("marshalling to journal-line", func() {
		It("embeds json-data as is", func() {
			event, err := NewEvent(&EventCfg{
				AggregateID: "100",
				Action:      AccountDeposited,
				Data:        map[string]string{"amount": "50"},
			})
			Expect(err).ToNot(HaveOccurred())

			line, err := json.Marshal(event)
			Expect(err).ToNot(HaveOccurred())

			parsed := map[string]interface{}{}
			err = json.Unmarshal(line, &parsed)
			Expect(err).ToNot(HaveOccurred())
			Expect(parsed["aggregate_id"]).To(Equal("100"))
			Expect(parsed["action"]).To(Equal("AccountDeposited"))
			Expect(parsed["data"]).To(Equal(map[string]interface{}{"amount": "50"}))
		})

		It("quotes non-json data", func() {
			event, err := NewEvent(&EventCfg{
				AggregateID: "service-queue",
				Action:      CustomerQueued,
				Data:        []byte("plain text"),
			})
			Expect(err).ToNot(HaveOccurred())

			line, err := json.Marshal(event)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(line)).To(ContainSubstring(`"data":"plain text"`))
		})
	})
})
