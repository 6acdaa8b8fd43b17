package logger

import (
	"bytes"
	"os"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("LogrusLogger", func() {
	var buf *bytes.Buffer

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("LEDGER_LOG_LEVEL")
	})

	AfterEach(func() {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("LEDGER_LOG_LEVEL")
	})

	It("maps prefix to env-var", func() {
		Expect(EnvVarFor("ledger/Ledger")).To(Equal("LEDGER_LEDGER_LOG_LEVEL"))
		Expect(EnvVarFor("EventBus")).To(Equal("EVENTBUS_LOG_LEVEL"))
	})

	It("logs at info-level by default", func() {
		log := NewLoggerWithOutput("ledger", buf)
		log.Debug("hidden")
		log.Infof("deposited %d", 50)

		Expect(buf.String()).ToNot(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("deposited 50"))
		Expect(buf.String()).To(ContainSubstring("module=ledger"))
	})

	It("uses global log-level", func() {
		os.Setenv("LOG_LEVEL", "warn")
		log := NewLoggerWithOutput("ledger", buf)
		log.Info("hidden")
		log.Warn("shown")

		Expect(buf.String()).ToNot(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("shown"))
	})

	It("prefers prefix-specific log-level", func() {
		os.Setenv("LOG_LEVEL", "error")
		os.Setenv("LEDGER_LOG_LEVEL", "trace")
		log := NewLoggerWithOutput("ledger", buf)
		log.Tracef("trace %s", "line")

		Expect(buf.String()).To(ContainSubstring("trace line"))
	})

	It("falls back to default on invalid level", func() {
		os.Setenv("LOG_LEVEL", "loud")
		log := NewLoggerWithOutput("ledger", buf)
		log.Debug("hidden")
		log.Info("shown")

		Expect(buf.String()).ToNot(ContainSubstring("hidden"))
		Expect(buf.String()).To(ContainSubstring("shown"))
	})
})
