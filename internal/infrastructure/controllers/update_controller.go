package controllers

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/pkgscript-updater/internal/domain/commands"
	"github.com/rios0rios0/pkgscript-updater/internal/domain/entities"
)

const defaultEnvFile = ".env"

// UpdateController handles the "run" subcommand.
type UpdateController struct {
	command commands.Update
}

// NewUpdateController creates a new UpdateController.
func NewUpdateController(command commands.Update) *UpdateController {
	return &UpdateController{command: command}
}

// GetBind returns the Cobra command metadata for the update controller.
func (it *UpdateController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "run",
		Short: "Update the package descriptors to the latest upstream tag",
		Long: `Fetch the latest upstream release tag, download and hash its archive,
patch the package descriptors, then push a signed commit and email
the maintainer.

This is the command intended to be used in a scheduled job. All
credentials are read from the environment, optionally from a dotenv
file.`,
	}
}

// Execute runs one update.
func (it *UpdateController) Execute(cmd *cobra.Command, _ []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	targetPath, _ := cmd.Flags().GetString("target")
	workDir, _ := cmd.Flags().GetString("workdir")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if envFile == "" {
		if _, err := os.Stat(defaultEnvFile); err == nil {
			envFile = defaultEnvFile
		}
	}
	if envFile != "" {
		logger.Infof("Using env file: %s", envFile)
	}

	settings, err := entities.NewSettings(envFile)
	if err != nil {
		return err
	}

	target := entities.DefaultPackageTarget()
	if targetPath != "" {
		if target, err = entities.NewPackageTarget(targetPath); err != nil {
			return err
		}
		logger.Infof("Using target profile: %s", targetPath)
	}

	report, runErr := it.command.Execute(cmd.Context(), settings, target, commands.UpdateOptions{
		DryRun:  dryRun,
		Verbose: verbose,
		WorkDir: workDir,
	})
	WriteSummary(cmd.OutOrStdout(), target, report, runErr)
	return runErr
}

// AddFlags adds the run-specific flags to the given Cobra command.
func (it *UpdateController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("env-file", "", "Path to a dotenv file (default: .env when present)")
	cmd.Flags().String("target", "", "Path to a YAML target profile (default: built-in Vim profile)")
	cmd.Flags().String("workdir", "", "Parent directory for the scratch directory (default: system temp)")
}
