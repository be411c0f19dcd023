package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/djtree/internal/logging"
	"github.com/yaklabco/djtree/pkg/django"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, build date and grammar version of djtree.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logger := logging.NewWriter(cmd.OutOrStdout(), "info")

			logger.Info("djtree",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				logging.FieldLanguage, django.Language().String(),
			)
		},
	}

	return cmd
}
