package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/realmeupdater/realme-updates-tracker/internal/store"
)

// newArchiveCmd groups archive maintenance subcommands.
func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Archive maintenance commands",
	}
	cmd.AddCommand(newArchiveRebuildCmd())
	return cmd
}

// newArchiveRebuildCmd regenerates the per-codename archive files from a
// links list, used to bootstrap the archive or repair it after manual edits.
func newArchiveRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild <links-file>",
		Short: "Rebuilds the version archive from a links list",
		Long: `Reads a text file with one "version download-link" pair per line,
regenerates every per-codename archive file from it, and rewrites the
consolidated archive document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			archive := store.NewArchiveStore(filepath.Join(cfg.Data.Dir, "archive"))
			if err := archive.Rebuild(args[0]); err != nil {
				return fmt.Errorf("rebuild archive: %w", err)
			}
			return nil
		},
	}
}
