package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Digital-Shane/entry-sift/internal/config"
	"github.com/Digital-Shane/entry-sift/internal/log"
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags and the state every subcommand
// shares once PersistentPreRunE has run.
type rootOptions struct {
	listingPath string
	configPath  string
	entryID     int

	cfg         *config.Config
	debugCloser io.Closer
}

// NewRootCmd builds the full command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "entry-sift",
		Short: "Search, sort and prepare changes for entry file listings",
		Long: `entry-sift works on the rendered file listing of one entry.

It ranks files against a query, sorts them by any column, previews bulk
renames and builds the request bodies that move, delete, rename or bundle the
selected files. Nothing is sent anywhere: requests are printed as JSON and
recorded in the session log so renames can be reverted later.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd, args)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.teardown()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.listingPath, "listing", "l", "-", "JSON listing to read, - for stdin")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default ~/.entry-sift/config.json)")
	flags.IntVar(&opts.entryID, "entry", 0, "Entry id for prepared requests (default: the listing's entry_id)")

	rootCmd.AddCommand(
		newSearchCmd(opts),
		newSortCmd(opts),
		newRenameCmd(opts),
		newLookupCmd(opts),
		newPayloadCmd(opts),
		newBrowseCmd(opts),
		newConfigCmd(opts),
		newUndoCmd(opts),
		newHistoryCmd(opts),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and runs it.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func (o *rootOptions) setup(cmd *cobra.Command, args []string) error {
	var err error
	if o.configPath != "" {
		o.cfg, err = config.LoadFile(o.configPath)
	} else {
		o.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	o.debugCloser, err = log.SetupDebug(o.cfg.DebugLog)
	if err != nil {
		return fmt.Errorf("failed to set up debug log: %w", err)
	}

	log.Initialize(o.cfg.EnableLogging, o.cfg.LogRetentionDays)
	listingName := ""
	if o.listingPath != "-" {
		listingName = o.listingPath
	}
	if err := log.StartSession(cmd.Name(), args, listingName); err != nil {
		return fmt.Errorf("failed to start session log: %w", err)
	}
	return nil
}

func (o *rootOptions) teardown() error {
	err := log.EndSession()
	if o.debugCloser != nil {
		_ = o.debugCloser.Close()
	}
	if err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}
	return nil
}
