package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bjaus/formcheck"
)

// LintResult is the JSON payload of the lint command.
type LintResult struct {
	Valid  bool                        `json:"valid"`
	Errors []formcheck.StructuralError `json:"errors"`
}

// NewLintCommand creates the lint command.
func NewLintCommand(rootOpts *RootOptions) *cobra.Command {
	var config string

	cmd := &cobra.Command{
		Use:   "lint --config <form>",
		Short: "Check a form configuration for structural problems",
		Long: `Check a form configuration for duplicate names, unknown sections, missing
table or grid configuration and rules that cannot be evaluated.

Exits 1 when problems are found and 2 when the file cannot be read.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}

			cfg, err := LoadForm(config)
			if err != nil {
				return out.CommandError(loadErrCode(err), "load form configuration", err)
			}

			errs := formcheck.Lint(cfg)
			if len(errs) == 0 {
				return out.Success(LintResult{Valid: true, Errors: []formcheck.StructuralError{}}, "✓ configuration valid")
			}

			msg := fmt.Sprintf("configuration invalid: %d problem(s)", len(errs))
			if err := out.Failure(ErrCodeLint, msg, LintResult{Errors: errs}); err != nil {
				return err
			}
			if !out.JSON() {
				for _, e := range errs {
					fmt.Fprintf(out.Writer, "  %s\n", e)
				}
			}
			return NewExitError(ExitFailure, msg)
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "form configuration file")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}
