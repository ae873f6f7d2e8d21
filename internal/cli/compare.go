package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bntaxonomy/bntaxonomy/pkg/control"
	bnerrors "github.com/bntaxonomy/bntaxonomy/pkg/errors"
)

func (c *CLI) compareCommand() *cobra.Command {
	var (
		maxSize     int
		showMissing bool
	)

	cmd := &cobra.Command{
		Use:   "compare FILE_A FILE_B",
		Short: "Decide dominance between two stored results",
		Long: `Compare two result files (JSON lists of interventions) and report in which
direction dominance holds. A -> B holds when every control found by A is
covered by a control of B on a subset of its variables with the same values.`,
		Example: `  bntaxonomy compare results/bbm/001/pystablemotifs.json results/bbm/001/mtsnf.json`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := control.Options{SizeLimit: maxSize}
			a, err := readResult(args[0], opts)
			if err != nil {
				return err
			}
			b, err := readResult(args[1], opts)
			if err != nil {
				return err
			}
			printComparison(cmd.OutOrStdout(), a, b, showMissing)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxSize, "max-size", 0, "ignore interventions larger than this (0: no cap)")
	cmd.Flags().BoolVar(&showMissing, "missing", false, "list the controls that break each failing direction")
	return cmd
}

// readResult decodes a result file, naming it after the file.
func readResult(path string, opts control.Options) (control.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return control.Result{}, bnerrors.Wrap(bnerrors.ErrCodeInvalidPath, err, "read %s", path)
	}
	items, err := control.DecodeInterventions(data)
	if err != nil {
		return control.Result{}, bnerrors.Wrap(bnerrors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return control.NewResult(name, items, opts), nil
}

func printComparison(w io.Writer, a, b control.Result, showMissing bool) {
	printKeyValue(w, a.Name, fmt.Sprintf("%d controls", a.Len()))
	printKeyValue(w, b.Name, fmt.Sprintf("%d controls", b.Len()))
	fmt.Fprintln(w)

	for _, dir := range [][2]control.Result{{a, b}, {b, a}} {
		from, to := dir[0], dir[1]
		arrow := from.Name + " -> " + to.Name
		if to.AtLeastAsStrongAs(from) {
			printSuccess(w, "%s holds", arrow)
			continue
		}
		missing := to.Uncovered(from)
		printWarning(w, "%s fails: %d of %d controls uncovered", arrow, len(missing), from.Len())
		if showMissing {
			for _, p := range missing {
				printDetail(w, "%s", p)
			}
		}
	}
}
