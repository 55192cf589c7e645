package ecopredicate

import (
	"fmt"

	"github.com/soundprediction/ecopredicate/pkg/factstore"
	"github.com/soundprediction/ecopredicate/pkg/snapshot"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and restore fact stores in the snapshot database",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <name> <path>",
	Short: "Read facts from path and save them as snapshot <name>",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotSave,
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load <name> <path>",
	Short: "Write snapshot <name> to path",
	Args:  cobra.ExactArgs(2),
	RunE:  runSnapshotLoad,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE:  runSnapshotList,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotLoadCmd, snapshotListCmd, snapshotDeleteCmd)

	snapshotCmd.PersistentFlags().String("dir", "", "snapshot database directory (default from config)")
	for _, c := range []*cobra.Command{snapshotSaveCmd, snapshotLoadCmd} {
		c.Flags().String("format", "", "file format (csv, alchemy, aleph, parquet)")
		c.Flags().Bool("fuzzy", false, "treat the facts as a fuzzy store")
	}
}

func openSnapshots(cmd *cobra.Command, rt *app) (*snapshot.Store, error) {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = rt.cfg.Snapshot.Dir
	}
	return snapshot.Open(dir, rt.logger)
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	format, err := rt.formatFlag(cmd, "format")
	if err != nil {
		return err
	}
	s, err := rt.load(rt.storeType(cmd), format, args[1])
	if err != nil {
		return err
	}

	snaps, err := openSnapshots(cmd, rt)
	if err != nil {
		return err
	}
	defer snaps.Close()

	switch db := s.(type) {
	case *factstore.BooleanStore:
		return snaps.SaveBoolean(cmd.Context(), args[0], db)
	case *factstore.FuzzyStore:
		return snaps.SaveFuzzy(cmd.Context(), args[0], db)
	}
	return nil
}

func runSnapshotLoad(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	format, err := rt.formatFlag(cmd, "format")
	if err != nil {
		return err
	}
	snaps, err := openSnapshots(cmd, rt)
	if err != nil {
		return err
	}
	defer snaps.Close()

	var s factstore.Store
	switch rt.storeType(cmd) {
	case factstore.StoreTypeFuzzy:
		db := factstore.NewFuzzyStore()
		err = snaps.LoadFuzzy(cmd.Context(), args[0], db)
		s = db
	default:
		db := factstore.NewBooleanStore()
		err = snaps.LoadBoolean(cmd.Context(), args[0], db)
		s = db
	}
	if err != nil {
		return err
	}
	return rt.write(s, format, args[1])
}

func runSnapshotList(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	snaps, err := openSnapshots(cmd, rt)
	if err != nil {
		return err
	}
	defer snaps.Close()

	infos, err := snaps.List(cmd.Context())
	if err != nil {
		return err
	}
	for _, info := range infos {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", info.Name, info.Type)
	}
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	rt, err := setup(cmd)
	if err != nil {
		return err
	}
	snaps, err := openSnapshots(cmd, rt)
	if err != nil {
		return err
	}
	defer snaps.Close()
	return snaps.Delete(cmd.Context(), args[0])
}
