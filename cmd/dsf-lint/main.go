// Command dsf-lint validates DSF process plugin projects: BPMN process
// definitions, the FHIR resources they ship and the consistency between the
// two.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	dsflint "github.com/datasharingframework/dsf-linter-sub005"
	"github.com/datasharingframework/dsf-linter-sub005/capability"
	"github.com/datasharingframework/dsf-linter-sub005/config"
	"github.com/datasharingframework/dsf-linter-sub005/engine"
	"github.com/datasharingframework/dsf-linter-sub005/logging"
	"github.com/datasharingframework/dsf-linter-sub005/report"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "dsf-lint",
		Short:         "Validate DSF process plugin projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "configuration file (default "+config.DefaultFile+")")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")

	root.AddCommand(newValidateCommand(), newVersionCommand())
	return root
}

func newValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <project-root>",
		Short: "Validate a plugin project and print the report",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	cmd.Flags().String("api-version", "1", "plugin API version (1 or 2)")
	cmd.Flags().Int("workers", 0, "parallel file validations (0 = one per CPU)")
	cmd.Flags().String("catalog", "", "type catalog file for capability checks")
	cmd.Flags().Bool("questionnaires", true, "validate questionnaires")
	cmd.Flags().Bool("codings", true, "validate coding membership")
	cmd.Flags().String("format", "text", "report format (text, json, yaml)")
	cmd.Flags().StringP("output", "o", "", "report file (default stdout)")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer log.Sync()

	var catalog capability.Catalog = capability.NewMapCatalog(nil)
	if cfg.Catalog != "" {
		catalog, err = capability.LoadCatalogFile(cfg.Catalog)
		if err != nil {
			return err
		}
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	eng, err := engine.New(catalog, log, opts...)
	if err != nil {
		return err
	}

	result, err := eng.ValidateProject(args[0])
	if err != nil {
		return err
	}

	doc := report.New(args[0], result)
	out := io.Writer(cmd.OutOrStdout())
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	if err := doc.Write(out, cfg.Format); err != nil {
		return err
	}

	if !result.Passed {
		return fmt.Errorf("validation failed with %d errors", result.ErrorCount())
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the linter version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "dsf-lint "+dsflint.Version)
		},
	}
}
