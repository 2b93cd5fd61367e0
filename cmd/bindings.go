package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newKeysCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every bound key and its kind",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := boot(opts)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, key := range a.Keys() {
				kind, ok := a.Kind(key)
				if !ok {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\n", key, kind)
			}
			return tw.Flush()
		},
	}
}

func newRawCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "raw KEY",
		Short: "Show the unevaluated payload bound to KEY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot(opts)
			if err != nil {
				return err
			}
			raw, err := a.Raw(args[0])
			if err != nil {
				return err
			}
			kind, _ := a.Kind(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "kind:    %s\npayload: %T\n", kind, raw)
			return nil
		},
	}
}

func newGetCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Resolve KEY and print the result as YAML",
		Long: `Resolve KEY through the container, running its extension chain, and
print the result as YAML.

Examples:
  syringe get mail.host --values values.yaml
  syringe get config`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := boot(opts)
			if err != nil {
				return err
			}
			v, err := a.Get(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return fmt.Errorf("encoding %q: %w", args[0], err)
			}
			return enc.Close()
		},
	}
}
