package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/modtier/internal/domain/catalog"
)

func newFamilyCommand(opts *rootOptions) *cobra.Command {
	var group, slot string
	cmd := &cobra.Command{
		Use:   "family",
		Short: "List the members of a modifier family in catalog order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkOutput(); err != nil {
				return err
			}
			eng, err := opts.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			fam, ok := eng.table.FamilyOf(group, catalog.ParseAffixSlot(slot))
			if !ok {
				return fmt.Errorf("unknown family %s/%s", group, slot)
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, fam)
			}
			for _, r := range fam {
				if _, err := fmt.Fprintf(out, "%s\t%s\n", r.Key, r.TierLabel); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "Modifier group")
	cmd.Flags().StringVar(&slot, "slot", "", "Affix slot (prefix, suffix, other)")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("slot")
	return cmd
}
