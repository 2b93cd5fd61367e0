package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-syringe/framework/app"
)

var version = "dev"

// options are the persistent flags shared by every subcommand.
type options struct {
	envFiles   []string
	valuesFile string
}

// NewRootCmd builds the syringe command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "syringe",
		Short: "Inspect and serve a dependency container",
		Long: `syringe boots a container from .env configuration and an optional values
file, then lists, inspects or resolves its bindings, or serves them over HTTP.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringSliceVarP(&opts.envFiles, "env", "e", nil,
		"dotenv files to load (default: .env)")
	root.PersistentFlags().StringVarP(&opts.valuesFile, "values", "f", "",
		"values file (yaml, json or toml) bound as Value bindings")

	root.AddCommand(
		newKeysCmd(opts),
		newRawCmd(opts),
		newGetCmd(opts),
		newServeCmd(opts),
	)
	return root
}

// boot creates and boots the application described by opts.
func boot(opts *options) (*app.Application, error) {
	a, err := app.New(app.Options{EnvFiles: opts.envFiles, ValuesFile: opts.valuesFile})
	if err != nil {
		return nil, fmt.Errorf("creating application: %w", err)
	}
	if err := a.Boot(); err != nil {
		return nil, fmt.Errorf("booting application: %w", err)
	}
	return a, nil
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
}
