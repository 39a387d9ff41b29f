package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"apidiff/internal/apierrors"
	"apidiff/internal/config"
)

var (
	initFormat string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  "Creates an apidiff configuration file with default settings in the current directory",
	Run:   runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFormat, "format", "json", "Configuration format (json, yaml)")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) {
	if err := initConfigFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(apierrors.ExitCode(err))
	}
}

func initConfigFile() error {
	path := "apidiff." + initFormat
	if initFormat != "json" && initFormat != "yaml" {
		return apierrors.Errorf(apierrors.ConfigInvalid, "unsupported configuration format: %s", initFormat)
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		// Idempotent behavior: already initialized is success (CI-friendly)
		fmt.Printf("Configuration already exists at %s\n", path)
		fmt.Println("\nRun 'apidiff init --force' to overwrite it.")
		return nil
	}

	if err := config.WriteScaffold(path, initFormat); err != nil {
		return err
	}

	fmt.Printf("Configuration written to %s\n", path)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Adjust filters, mappings and exclusions for your assemblies")
	fmt.Println("  2. Run 'apidiff compare <baseline> <candidate>'")

	return nil
}
