package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/modtier/internal/domain/tiers"
)

func newClassifyCommand(opts *rootOptions) *cobra.Command {
	var (
		basePath string
		tags     []string
		modKey   string
	)
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the tier of one modifier and the valid tier keys",
		Long: "Classify resolves the tier of --mod on an item with --base and --tag,\n" +
			"then prints \"<key> - <tier> / <total>\" followed by every valid tier key.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkOutput(); err != nil {
				return err
			}
			eng, err := opts.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			rec, ok := eng.catalog.LookupModifierRecord(modKey)
			if !ok {
				return fmt.Errorf("unknown modifier key %q", modKey)
			}
			base, found := eng.catalog.LookupBaseType(basePath)
			res := eng.classifier.Classify(tiers.ResolveTags(base, found, tags), rec)

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, res)
			}
			_, err = fmt.Fprintf(out, "%s - %d / %d\n", rec.Key, res.Tier, res.TotalTiers)
			if err != nil {
				return err
			}
			if len(res.ValidTierKeys) > 0 {
				_, err = fmt.Fprintln(out, strings.Join(res.ValidTierKeys, "\n"))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&basePath, "base", "", "Base type path of the item")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Extra item tag (repeatable)")
	cmd.Flags().StringVar(&modKey, "mod", "", "Modifier key to classify")
	_ = cmd.MarkFlagRequired("mod")
	return cmd
}
