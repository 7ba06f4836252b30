package commands

import (
	"io"
	"log"

	"github.com/spf13/cobra"

	"github.com/ivlev/treedecor/internal/config"
)

var (
	configPath string
	verbose    bool
)

func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "treedecor",
		Short:         "Decorate a Christmas tree and export it as PNG or looping GIF",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (TREEDECOR_* env vars override it)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")

	root.AddCommand(decorateCmd(version), catalogCmd())
	return root
}

// loadConfig reads the config shared by every subcommand.
func loadConfig(version string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	cfg.BuildVersion = version
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "", log.LstdFlags)
}
