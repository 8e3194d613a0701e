package cli

import (
	"fmt"
	"io"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bjaus/formcheck"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Policy  string // "fail-open" | "fail-closed"
}

// Settings are the environment defaults for RootOptions. Flags override them.
type Settings struct {
	Verbose bool   `env:"FORMCHECK_VERBOSE"`
	Format  string `env:"FORMCHECK_FORMAT" envDefault:"text"`
	Policy  string `env:"FORMCHECK_POLICY" envDefault:"fail-open"`
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// LoadSettings reads FORMCHECK_* variables from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse environment: %w", err)
	}
	return s, nil
}

// NewRootCommand creates the formcheck command tree.
func NewRootCommand(s Settings) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "formcheck",
		Short: "Validate form submissions against form configurations",
		Long: `formcheck evaluates submitted form data against a declarative form
configuration, the same way the server validates a submission.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := formcheck.ParsePolicy(opts.Policy); err != nil {
				return WrapExitError(ExitCommandError, "invalid policy", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", s.Verbose, "log debug output to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", s.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Policy, "policy", s.Policy, "misconfiguration policy (fail-open|fail-closed)")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewLintCommand(opts))

	return cmd
}

// newLogger builds a logger writing to w: development encoding at debug
// level when verbose, production encoding at warn level otherwise.
func newLogger(verbose bool, w io.Writer) *zap.Logger {
	sink := zapcore.AddSync(w)
	if verbose {
		enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		return zap.New(zapcore.NewCore(enc, sink, zapcore.DebugLevel))
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, sink, zapcore.WarnLevel))
}
