// Package cli — clean.go implements the "codeagent clean" command.
//
// Clean deletes the sandbox's persistent volumes by category, so users
// can wipe caches without losing credentials (or wipe everything with
// --all). Services are brought down first to release the volumes, then
// each volume is deleted independently — one held volume never stops the
// rest from being removed.
package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/toolkit-infra/codeagent/internal/config"
	"github.com/toolkit-infra/codeagent/internal/model"
)

// cleanFlags holds the flag values for the clean command.
type cleanFlags struct {
	all bool // --all: delete every known volume regardless of category
}

// NewCleanCommand creates the "clean" cobra command.
func NewCleanCommand() *cobra.Command {
	flags := &cleanFlags{}

	cmd := &cobra.Command{
		Use:   "clean [category...]",
		Short: "Delete persistent sandbox volumes by category",
		Long: fmt.Sprintf(`Delete the sandbox's persistent Docker volumes.

Categories: %s

Examples:
  codeagent clean cache
  codeagent clean cache data
  codeagent clean --all`, strings.Join(config.VolumeCategories(), ", ")),

		Args: cobra.ArbitraryArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), args, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.all, "all", false, "Delete all sandbox volumes")

	return cmd
}

// runClean is the main logic function for the clean command.
func runClean(ctx context.Context, categories []string, flags *cleanFlags) error {
	volumes, err := selectVolumes(categories, flags.all)
	if err != nil {
		return err
	}

	cfg, engine, err := commandSetup()
	if err != nil {
		return err
	}
	if err := preflightDaemon(ctx); err != nil {
		return err
	}

	// Bring the services down first so the volumes are released. A failed
	// down is reported but not fatal: the per-volume deletes surface what
	// is still held.
	if result, downErr := engine.Down(ctx, cfg, model.DockerNone, false); downErr != nil || !result.Success() {
		statusLine(false, "compose down failed, some volumes may be held")
	}

	existing := engine.ExistingVolumes(ctx, volumes)
	if len(existing) == 0 {
		statusLine(true, "nothing to clean")
		return nil
	}

	results := engine.DeleteVolumes(ctx, existing)
	deleted, failed := splitCleanResults(results)

	for _, name := range deleted {
		statusLine(true, "deleted %s", name)
	}
	for _, name := range failed {
		statusLine(false, "could not delete %s", name)
	}

	if len(failed) > 0 {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("%d of %d volumes could not be deleted", len(failed), len(existing)))
	}
	return nil
}

// selectVolumes resolves the requested categories (or --all) into volume
// names. At least one selector is required — an accidental bare "clean"
// must not wipe anything.
func selectVolumes(categories []string, all bool) ([]string, error) {
	if all {
		if len(categories) > 0 {
			return nil, model.NewCLIError(model.ExitGeneralError, "--all cannot be combined with category arguments")
		}
		return config.AllVolumes(), nil
	}
	if len(categories) == 0 {
		return nil, model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("specify at least one category (%s) or --all",
				strings.Join(config.VolumeCategories(), ", ")))
	}

	var volumes []string
	for _, cat := range categories {
		vols := config.VolumesByCategory(cat)
		if len(vols) == 0 {
			return nil, model.NewCLIError(model.ExitGeneralError,
				fmt.Sprintf("unknown category %q (valid: %s)",
					cat, strings.Join(config.VolumeCategories(), ", ")))
		}
		volumes = append(volumes, vols...)
	}
	return volumes, nil
}

// splitCleanResults partitions per-volume outcomes into sorted deleted and
// failed name lists for reporting.
func splitCleanResults(results map[string]bool) (deleted, failed []string) {
	for name, ok := range results {
		if ok {
			deleted = append(deleted, name)
		} else {
			failed = append(failed, name)
		}
	}
	sort.Strings(deleted)
	sort.Strings(failed)
	return deleted, failed
}
