package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/modtier/internal/domain/inspect"
)

func newInspectCommand(opts *rootOptions) *cobra.Command {
	var itemPath string
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Classify every modifier on an item read from a JSON file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.checkOutput(); err != nil {
				return err
			}
			eng, err := opts.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			var item inspect.Item
			if err := readJSON(cmd.InOrStdin(), itemPath, &item); err != nil {
				return err
			}
			rep, err := eng.inspector.Inspect(cmd.Context(), item)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.output == outputJSON {
				return writeJSON(out, rep)
			}
			for _, line := range rep.Lines() {
				if _, err := fmt.Fprintln(out, line); err != nil {
					return err
				}
			}
			for _, key := range rep.Unknown {
				if _, err := fmt.Fprintf(out, "%s - unknown\n", key); err != nil {
					return err
				}
			}
			s := rep.Summary
			_, err = fmt.Fprintf(out, "best=%d second=%d unknown=%d highlight=%t\n",
				s.BestRolls, s.SecondBestRolls, s.UnknownRolls, s.Highlight)
			return err
		},
	}
	cmd.Flags().StringVar(&itemPath, "item", "-", "Item JSON file, - for stdin")
	return cmd
}

// readJSON decodes the file at path, or stdin when path is "-".
func readJSON(stdin io.Reader, path string, v any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path) //nolint:gosec // operator supplied path
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
