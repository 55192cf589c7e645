package ecopredicate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
	"github.com/soundprediction/ecopredicate/pkg/formats"
	"github.com/spf13/cobra"
)

var domainsCmd = &cobra.Command{
	Use:   "domains <path>",
	Short: "Infer argument domains from positive facts",
	Long: `Domains reads a relation signature (a YAML map from predicate name to the
list of domain identifiers of its arguments) and prints, for every domain,
the constants observed in that role across the positive facts.`,
	Args: cobra.ExactArgs(1),
	RunE: runDomains,
}

func init() {
	rootCmd.AddCommand(domainsCmd)

	domainsCmd.Flags().String("format", "", "input format (csv, alchemy, aleph, parquet)")
	domainsCmd.Flags().String("signature", "", "relation signature YAML file")
	domainsCmd.MarkFlagRequired("signature")
}

func runDomains(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	format, err := rt.formatFlag(cmd, "format")
	if err != nil {
		return err
	}
	sigPath, _ := cmd.Flags().GetString("signature")
	sig, err := formats.LoadSignature(sigPath)
	if err != nil {
		return err
	}

	db := factstore.NewBooleanStore()
	if err := rt.codec.ReadBoolean(format, args[0], db); err != nil {
		return err
	}
	domains, err := db.InferDomains(sig)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(domains))
	for name := range domains {
		names = append(names, name)
	}
	sort.Strings(names)
	w := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintf(w, "%s: {%s}\n", name, strings.Join(domains[name].Sorted(), ", "))
	}
	return nil
}
