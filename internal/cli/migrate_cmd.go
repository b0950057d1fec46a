package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GTD-web/ems-backend-sub025/internal/platform/db"
)

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := opts.load()
			if err != nil {
				return err
			}
			database, err := opts.connect(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.Migrate(cmd.Context(), database.DB); err != nil {
				return fmt.Errorf("migrations failed: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return err
		},
	}
}
