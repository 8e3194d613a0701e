package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bjaus/formcheck"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	Config string
	Data   string
	Field  string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate --config <form> --data <submission>",
		Short: "Validate a submission against a form configuration",
		Long: `Validate submitted form data against a form configuration.

Both files may be JSON or YAML; pass "-" as --data to read the submission
from standard input. Custom and async validators cannot be registered from
the command line, so custom rules fall under --policy.

Exits 1 when the submission is invalid and 2 when the inputs cannot be read.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "form configuration file")
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", `submission file, or "-" for stdin`)
	cmd.Flags().StringVar(&opts.Field, "field", "", "validate a single field by name")
	_ = cmd.MarkFlagRequired("config")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, opts *ValidateOptions) error {
	out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	logger := newLogger(rootOpts.Verbose, cmd.ErrOrStderr())
	defer func() { _ = logger.Sync() }()

	policy, err := formcheck.ParsePolicy(rootOpts.Policy)
	if err != nil {
		return out.CommandError(ErrCodeUsage, "invalid policy", err)
	}

	cfg, err := LoadForm(opts.Config)
	if err != nil {
		return out.CommandError(loadErrCode(err), "load form configuration", err)
	}
	raw, err := LoadSubmission(opts.Data, cmd.InOrStdin())
	if err != nil {
		return out.CommandError(loadErrCode(err), "load submission", err)
	}

	v := formcheck.New(
		formcheck.WithLogger(logger),
		formcheck.WithPolicy(policy),
	)
	logger.Debug("validating submission",
		zap.String("form", cfg.ID),
		zap.Int("fields", len(cfg.Fields)),
		zap.String("policy", policy.String()),
	)

	var res formcheck.ValidationResult
	if opts.Field != "" {
		field, ok := findField(cfg, opts.Field)
		if !ok {
			return out.CommandError(ErrCodeNotFound, fmt.Sprintf("form %q has no field %q", cfg.ID, opts.Field), nil)
		}
		data, err := formcheck.JSONInspector().Inspect(raw)
		if err != nil {
			return out.CommandError(ErrCodeLoad, "inspect submission", err)
		}
		res = v.ValidateField(field, formcheck.Lookup(raw, gjsonEscape(field.Name)), toNative(data))
	} else {
		res, err = v.ValidateJSON(cfg, raw)
		if err != nil {
			return out.CommandError(ErrCodeLoad, "validate submission", err)
		}
	}

	return reportResult(out, res)
}

func reportResult(out *OutputFormatter, res formcheck.ValidationResult) error {
	if res.Valid {
		return out.Success(res, "✓ submission valid")
	}

	msg := fmt.Sprintf("submission invalid: %d error(s)", len(res.Errors))
	if err := out.Failure(ErrCodeInvalid, msg, res); err != nil {
		return err
	}
	if !out.JSON() {
		for _, e := range res.Errors {
			fmt.Fprintf(out.Writer, "  %s [%s]: %s\n", e.Field, e.Rule, e.Message)
		}
	}
	return NewExitError(ExitFailure, msg)
}

func findField(cfg formcheck.FormConfig, name string) (formcheck.FieldConfig, bool) {
	for _, f := range cfg.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return formcheck.FieldConfig{}, false
}

func loadErrCode(err error) string {
	if errors.Is(err, ErrNotFound) {
		return ErrCodeNotFound
	}
	return ErrCodeLoad
}

// gjsonEscape escapes the path syntax characters gjson would otherwise
// interpret in a field name.
func gjsonEscape(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toNative(m formcheck.Map) map[string]any {
	out := make(map[string]any, len(m))
	for k, item := range m {
		out[k] = item
	}
	return out
}
