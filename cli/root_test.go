package cli

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"
)

// executeCommand runs root with args and input, and returns its output.
func executeCommand(root *cobra.Command, input string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	_, err := root.ExecuteC()
	return buf.String(), err
}

var _ = Describe("CLI", func() {
	It("prints version", func() {
		output, err := executeCommand(NewRoot(), "", "version")
		Expect(err).ToNot(HaveOccurred())
		Expect(output).To(Equal("bankledger dev\n"))
	})

	It("runs a quiet session", func() {
		input := strings.Join([]string{
			"1", "100", "Alice", "500",
			"3", "100", "0",
			"8",
		}, "\n")
		output, err := executeCommand(NewRoot(), input, "--quiet")
		Expect(err).ToNot(HaveOccurred())

		Expect(output).ToNot(ContainSubstring("1. Create Account"))
		Expect(output).To(ContainSubstring("Account created successfully for Alice"))
		Expect(output).To(ContainSubstring("Amount must be positive!"))
		Expect(output).To(HaveSuffix("Exiting...\n"))
	})

	It("allows non-positive amounts when validation is disabled", func() {
		input := strings.Join([]string{
			"1", "100", "Alice", "500",
			"3", "100", "0",
			"8",
		}, "\n")
		output, err := executeCommand(NewRoot(), input, "-q", "--no-validate-amounts")
		Expect(err).ToNot(HaveOccurred())
		Expect(output).To(ContainSubstring("Withdrew 0.00 from account 100"))
	})

	It("prints the menu by default", func() {
		output, err := executeCommand(NewRoot(), "8\n")
		Expect(err).ToNot(HaveOccurred())
		Expect(output).To(ContainSubstring("7. Serve Next Customer"))
	})

	It("errors on missing config-file", func() {
		_, err := executeCommand(NewRoot(), "8\n", "--config", "/nonexistent/bankledger.yaml")
		Expect(err).To(HaveOccurred())
	})
})
