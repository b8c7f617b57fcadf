// Package cli implements the modtier command line tool: offline tier
// lookups against a catalog file and bulk submission to a running server.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/okian/modtier/internal/domain/catalog"
	"github.com/okian/modtier/internal/domain/inspect"
	"github.com/okian/modtier/internal/domain/tiers"
	"github.com/okian/modtier/pkg/logger"
)

// Output formats.
const (
	outputText = "text"
	outputJSON = "json"
)

type rootOptions struct {
	catalogPath string
	mode        string
	output      string
	logLevel    string
}

// NewRootCommand builds the command tree writing results to out and logs
// to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "modtier-cli",
		Short:         "Modifier tier lookups and inspection submission",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := logger.InitWithFormat(logger.FormatText, errOut); err != nil {
				return err
			}
			return logger.SetLevelString(opts.logLevel)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.catalogPath, "catalog", "catalog.yaml", "Path to the YAML modifier catalog")
	flags.StringVar(&opts.mode, "mode", tiers.ModeAnyPositive.String(), "Eligibility mode (any_positive, first_match)")
	flags.StringVarP(&opts.output, "output", "o", outputText, "Output format (text, json)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newClassifyCommand(opts),
		newFamilyCommand(opts),
		newInspectCommand(opts),
		newSubmitCommand(opts),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	root := NewRootCommand(out, errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// engine is the offline tier stack built from a catalog file.
type engine struct {
	catalog    *catalog.Catalog
	table      *tiers.Table
	classifier *tiers.Classifier
	inspector  *inspect.Inspector
}

func (o *rootOptions) loadEngine(ctx context.Context) (*engine, error) {
	mode, ok := tiers.ParseEligibilityMode(o.mode)
	if !ok {
		return nil, fmt.Errorf("unknown eligibility mode %q", o.mode)
	}
	cat, err := catalog.Load(ctx, o.catalogPath)
	if err != nil {
		return nil, err
	}
	table := tiers.NewTable(cat.Records())
	classifier := tiers.NewClassifier(table, tiers.WithEligibilityMode(mode))
	return &engine{
		catalog:    cat,
		table:      table,
		classifier: classifier,
		inspector:  inspect.New(cat, classifier, inspect.WithLogger(logger.Named("inspect"))),
	}, nil
}

func (o *rootOptions) checkOutput() error {
	switch o.output {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
