// Package cli — build.go implements the "codeagent build" command.
//
// Build compiles the sandbox image via docker compose build. The image
// contains the dev toolchain plus the agent CLIs; everything mutable
// (credentials, caches) lives in named volumes, so rebuilding is safe.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolkit-infra/codeagent/internal/model"
)

// buildFlags holds the flag values for the build command.
type buildFlags struct {
	noCache bool // --no-cache: rebuild all image layers from scratch
}

// NewBuildCommand creates the "build" cobra command.
func NewBuildCommand() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the sandbox container image",
		Long: `Build the sandbox container image with docker compose build.

Examples:
  codeagent build
  codeagent build --no-cache`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Build without using the layer cache")

	return cmd
}

// runBuild is the main logic function for the build command.
func runBuild(ctx context.Context, flags *buildFlags) error {
	cfg, engine, err := commandSetup()
	if err != nil {
		return err
	}
	if err := preflightDaemon(ctx); err != nil {
		return err
	}

	statusLine(true, "building sandbox image...")
	result, err := engine.Build(ctx, cfg, flags.noCache)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "image build failed", err)
	}

	// compose build writes its progress to stderr; relay both streams so
	// the user sees what happened either way.
	fmt.Print(result.Stdout)
	fmt.Fprint(os.Stderr, result.Stderr)

	if !result.Success() {
		return model.NewCLIError(model.ExitGeneralError,
			fmt.Sprintf("image build failed (exit code %d)", result.ReturnCode))
	}

	statusLine(true, "sandbox image built")
	return nil
}
