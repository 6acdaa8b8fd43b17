package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/Jaskaranbir/mem-bank-ledger/config"
)

// Version is set at build-time via -ldflags.
var Version = "dev"

type rootFlags struct {
	cfgFile           string
	logLevel          string
	noValidateAmounts bool
	quiet             bool
}

// NewRoot creates the root command, which runs an
// interactive teller-session on command's in/out streams.
func NewRoot() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "bankledger",
		Short: "In-memory banking ledger with a teller menu",
		Long: `Runs an interactive teller-session over an in-memory ledger.
Accounts, balances and the customer-service queue live only
for the lifetime of the process.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runApp(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.Flags().StringVar(&flags.logLevel, "log-level", "", "log-level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&flags.noValidateAmounts, "no-validate-amounts", false, "allow non-positive amounts")
	rootCmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "don't print the menu before every choice")

	rootCmd.AddCommand(newVersion())
	return rootCmd
}

// Execute runs the root command with process-args.
func Execute() error {
	return NewRoot().ExecuteContext(context.Background())
}

func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	v := config.NewViper()
	if cmd.Flags().Changed("log-level") {
		v.Set(config.LogLevelKey, flags.logLevel)
		// Flag wins over an already exported LOG_LEVEL
		os.Setenv("LOG_LEVEL", flags.logLevel)
	}
	if flags.noValidateAmounts {
		v.Set(config.ValidateAmountsKey, false)
	}
	if flags.quiet {
		v.Set(config.ShowMenuKey, false)
	}

	cfg, err := config.Load(v, flags.cfgFile)
	return cfg, errors.Wrap(err, "error loading config")
}
