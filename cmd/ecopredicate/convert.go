package ecopredicate

import (
	"github.com/spf13/cobra"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert facts between file formats",
	Long: `Convert reads facts in one format and writes them in another.

Paths are interpreted per format: a directory for csv, a file for alchemy
and parquet, and a base name (without .f/.n) for aleph. Fuzzy stores can
only be read from and written to parquet.`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("from", "", "input format (csv, alchemy, aleph, parquet)")
	convertCmd.Flags().String("to", "", "output format (csv, alchemy, aleph, parquet)")
	convertCmd.Flags().Bool("fuzzy", false, "treat the facts as a fuzzy store")
}

func runConvert(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	from, err := rt.formatFlag(cmd, "from")
	if err != nil {
		return err
	}
	to, err := rt.formatFlag(cmd, "to")
	if err != nil {
		return err
	}

	s, err := rt.load(rt.storeType(cmd), from, args[0])
	if err != nil {
		return err
	}
	return rt.write(s, to, args[1])
}
