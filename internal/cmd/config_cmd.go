package cmd

import (
	"errors"
	"fmt"

	"github.com/Digital-Shane/entry-sift/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change presentation settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd.OutOrStdout(), opts.cfg)
		},
	}

	set := &cobra.Command{
		Use:   "set FIELD VALUE",
		Short: "Change one setting and save it",
		Example: `  entry-sift config set display_name english
  entry-sift config set sort_key modified
  entry-sift config set debug_log on`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.Fields,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cfg.Set(args[0], args[1]); err != nil {
				if errors.Is(err, config.ErrUnknownField) {
					return withSuggestion(err, args[0], config.Fields)
				}
				return err
			}
			var err error
			if opts.configPath != "" {
				err = opts.cfg.SaveFile(opts.configPath)
			} else {
				err = opts.cfg.Save()
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], args[1])
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := opts.configPath
			if p == "" {
				var err error
				if p, err = config.ConfigPath(); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}

	cmd.AddCommand(show, set, path)
	return cmd
}
