package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Config", func() {
	var envVars = []string{
		"LOG_LEVEL",
		"EVENTBUS_LOG_LEVEL",
		"BANKLEDGER_VALIDATE_AMOUNTS",
		"BANKLEDGER_LOG_LEVEL",
	}

	BeforeEach(func() {
		for _, envVar := range envVars {
			os.Unsetenv(envVar)
		}
	})

	AfterEach(func() {
		for _, envVar := range envVars {
			os.Unsetenv(envVar)
		}
	})

	It("loads defaults", func() {
		cfg, err := Load(nil, "")
		Expect(err).ToNot(HaveOccurred())

		Expect(cfg.LogLevel).To(Equal("warn"))
		Expect(cfg.ValidateAmounts).To(BeTrue())
		Expect(cfg.ShowMenu).To(BeTrue())
		Expect(cfg.ShutdownTimeoutSec).To(Equal(3))
	})

	It("exports log-levels to env-vars", func() {
		_, err := Load(nil, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(os.Getenv("LOG_LEVEL")).To(Equal("warn"))
		Expect(os.Getenv("EVENTBUS_LOG_LEVEL")).To(Equal("warn"))
	})

	It("keeps log-level env-vars already set", func() {
		os.Setenv("LOG_LEVEL", "trace")
		_, err := Load(nil, "")
		Expect(err).ToNot(HaveOccurred())
		Expect(os.Getenv("LOG_LEVEL")).To(Equal("trace"))
	})

	It("reads overrides from env", func() {
		os.Setenv("BANKLEDGER_VALIDATE_AMOUNTS", "false")
		os.Setenv("BANKLEDGER_LOG_LEVEL", "debug")

		cfg, err := Load(NewViper(), "")
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.ValidateAmounts).To(BeFalse())
		Expect(cfg.LogLevel).To(Equal("debug"))
	})

	It("reads config-file", func() {
		dir, err := ioutil.TempDir("", "bankledger")
		Expect(err).ToNot(HaveOccurred())
		defer os.RemoveAll(dir)

		path := filepath.Join(dir, "config.yaml")
		err = ioutil.WriteFile(path, []byte("show_menu: false\nshutdown_timeout_sec: 7\n"), 0o600)
		Expect(err).ToNot(HaveOccurred())

		cfg, err := Load(NewViper(), path)
		Expect(err).ToNot(HaveOccurred())
		Expect(cfg.ShowMenu).To(BeFalse())
		Expect(cfg.ShutdownTimeoutSec).To(Equal(7))
	})

	It("errors on missing config-file", func() {
		_, err := Load(NewViper(), "/nonexistent/config.yaml")
		Expect(err).To(HaveOccurred())
	})

	It("errors on invalid values", func() {
		v := NewViper()
		v.Set(ShutdownTimeoutSecKey, 0)
		_, err := Load(v, "")
		Expect(err).To(HaveOccurred())
	})
})
