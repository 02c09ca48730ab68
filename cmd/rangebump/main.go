package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/rangebump/internal"
	"github.com/rios0rios0/rangebump/internal/infrastructure/controllers"
)

func buildRootCommand(checkController *controllers.CheckController) *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "rangebump [package.json]",
		Short: "Bump npm dependency ranges to the versions your policy allows",
		Long: `Check the dependency ranges of a package.json against an npm registry
and compute the replacement range for every outdated one.

Policy flags decide which versions qualify: --pre and --release-only for
prereleases, --greatest to prefer the highest version over the most recently
published one, and --ceiling to cap the move at patch, minor or major.

Usage modes:
  rangebump                 Check ./package.json
  rangebump path/to/app     Check path/to/app/package.json
  rangebump -u --commit     Write the new ranges and commit them`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          checkController.Execute,
	}
	checkController.AddFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:           bind.Use,
			Short:         bind.Short,
			Long:          bind.Long,
			Args:          cobra.MaximumNArgs(1),
			SilenceUsage:  true,
			SilenceErrors: true,
			RunE:          controller.Execute,
		}
		controller.AddFlags(subCmd)
		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	checkController, appContext := injectApp()
	cobraRoot := buildRootCommand(checkController)
	addSubcommands(cobraRoot, appContext)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cobraRoot.ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatalf("Error executing 'rangebump': %s", err)
	}
}
