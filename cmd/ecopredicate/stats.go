package ecopredicate

import (
	"fmt"
	"io"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statsCmd = &cobra.Command{
	Use:   "stats <path>",
	Short: "Summarize the predicates and facts of a fact file",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().String("format", "", "input format (csv, alchemy, aleph, parquet)")
	statsCmd.Flags().Bool("fuzzy", false, "treat the facts as a fuzzy store")
	statsCmd.Flags().Bool("yaml", false, "print the summary as YAML")
}

func runStats(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	format, err := rt.formatFlag(cmd, "format")
	if err != nil {
		return err
	}
	s, err := rt.load(rt.storeType(cmd), format, args[0])
	if err != nil {
		return err
	}

	stats := factstore.GetStats(s)
	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(stats); err != nil {
			return fmt.Errorf("failed to encode stats: %w", err)
		}
		return enc.Close()
	}

	printStats(cmd.OutOrStdout(), s, stats)
	return nil
}

func printStats(w io.Writer, s factstore.Store, stats *factstore.Stats) {
	fmt.Fprintf(w, "type:       %s\n", stats.Type)
	fmt.Fprintf(w, "predicates: %d\n", stats.Predicates)
	fmt.Fprintf(w, "facts:      %d\n", stats.Facts)
	db, signed := s.(*factstore.BooleanStore)
	for _, name := range s.PredicateNames() {
		fmt.Fprintf(w, "  %-24s %d", name, stats.PerName[name])
		if signed {
			if n := db.Contradictions(name).Len(); n > 0 {
				fmt.Fprintf(w, " (%d contradictory)", n)
			}
		}
		fmt.Fprintln(w)
	}
}
