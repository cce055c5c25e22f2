package cli

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-manager/internal/backup"
	"github.com/BruksfildServices01/studio-manager/internal/spreadsheet"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every collection to an .xlsx workbook",
		Long: `Export clients, services, products, appointments and financial entries
to one workbook, one sheet per collection.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if output == "" {
				output = backup.FileName(time.Now())
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			w := bufio.NewWriter(f)
			if err := spreadsheet.Export(ctx, e.store, w); err != nil {
				f.Close()
				return err
			}
			if err := w.Flush(); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			return report(cmd.OutOrStdout(), rootOpts.Format, map[string]any{"exported": output})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, default studio-<timestamp>.xlsx")
	return cmd
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Replace the database contents with a workbook",
		Long: `Replace clients, services, products, appointments and financial entries
with the contents of a workbook written by export. The replacement is atomic.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			snap, err := spreadsheet.Import(ctx, e.store, f)
			if err != nil {
				return err
			}

			result := map[string]any{}
			for name, n := range snap.Counts() {
				result[name] = n
			}
			return report(cmd.OutOrStdout(), rootOpts.Format, result)
		},
	}
	return cmd
}
