package cli

import (
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-manager/internal/backup"
)

// NewBackupCommand creates the backup command.
func NewBackupCommand(rootOpts *RootOptions) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write one backup to the configured sink",
		Long: `Export the database once to the sink selected by BACKUP_DRIVER:
a local directory (file) or an S3 bucket (s3).`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := openEnv(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if dir != "" {
				e.cfg.BackupDriver = "file"
				e.cfg.BackupDir = dir
			}

			sink, err := backup.NewSink(e.cfg)
			if err != nil {
				return err
			}

			name, err := backup.NewWorker(e.store, sink, 0, e.log, nil).RunOnce(ctx)
			if err != nil {
				return err
			}

			return report(cmd.OutOrStdout(), rootOpts.Format, map[string]any{
				"sink": sink.String(),
				"name": name,
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "write to this directory instead of the configured sink")
	return cmd
}
