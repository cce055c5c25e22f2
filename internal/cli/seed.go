package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/studio-manager/internal/domain/inventory"
	"github.com/BruksfildServices01/studio-manager/internal/usecase/catalog"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <catalog.yaml>",
		Short: "Create products and services from a YAML catalog",
		Long: `Create the products and services listed in a YAML catalog file.
Services refer to products by their key. Everything is created in one
transaction.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			seed, err := catalog.ParseSeed(f)
			if err != nil {
				return err
			}

			e, err := openEnv(ctx, rootOpts, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			cat := catalog.New(e.store, inventory.NewLedger(e.store, e.log), nil, nil, e.log)
			res, err := cat.Seed(ctx, seed)
			if err != nil {
				return err
			}

			return report(cmd.OutOrStdout(), rootOpts.Format, map[string]any{
				"products": res.Products,
				"services": res.Services,
			})
		},
	}
	return cmd
}
