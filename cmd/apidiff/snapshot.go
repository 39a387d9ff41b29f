package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"apidiff/internal/apierrors"
	"apidiff/internal/storage"
	"apidiff/internal/surface"
)

var snapshotStoreDir string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Manage stored API surface snapshots",
	Long: `Snapshots persist an API surface in a local store so later comparisons
can reference it as snap:<id-or-name> without keeping the descriptor file
around. Identical surfaces are stored once.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <descriptor>",
	Short: "Save an API surface descriptor as a snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotSave,
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored snapshots, newest first",
	Args:  cobra.NoArgs,
	Run:   runSnapshotList,
}

func init() {
	snapshotCmd.PersistentFlags().StringVar(&snapshotStoreDir, "store-dir", storage.DefaultDir, "Snapshot store directory")
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshotSave(cmd *cobra.Command, args []string) {
	logger := newLogger()

	asm, err := surface.NewFileLoader(logger).Load(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apierrors.ExitCode(err))
	}

	store, err := storage.Open(snapshotStoreDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apierrors.ExitComparisonError)
	}
	defer store.Close()

	snap, err := store.Save(asm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apierrors.ExitComparisonError)
	}

	fmt.Printf("Saved snapshot %s (%s)\n", snap.ID, snap.Name)
	fmt.Printf("Reference it as snap:%s or snap:%s\n", snap.ID[:8], snap.Name)
}

func runSnapshotList(cmd *cobra.Command, args []string) {
	logger := newLogger()

	store, err := storage.Open(snapshotStoreDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apierrors.ExitComparisonError)
	}
	defer store.Close()

	snapshots, err := store.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apierrors.ExitComparisonError)
	}

	if len(snapshots) == 0 {
		fmt.Println("No snapshots stored.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVERSION\tCREATED\tSIZE")
	for _, snap := range snapshots {
		version := snap.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			snap.ID[:8], snap.Name, version,
			snap.CreatedAt.Format("2006-01-02 15:04"), snap.SizeBytes)
	}
	w.Flush()
}
