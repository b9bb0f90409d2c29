package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fastify/org-admin/internal/log"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "org-admin",
		Short: "GitHub organization membership lifecycle manager",
		Long: `A CLI tool that reconciles an organization's team membership against
contribution activity: onboarding, offboarding, and moving inactive
members to the emeritus team.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.Initialize(opts.Verbosity, os.Stderr)
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	addGlobalFlags(rootCmd, opts)

	// Register subcommands
	rootCmd.AddCommand(NewCmdOnboard(opts))
	rootCmd.AddCommand(NewCmdOffboard(opts))
	rootCmd.AddCommand(NewCmdEmeritus(opts))
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}

// addGlobalFlags adds the flags shared by every lifecycle command.
func addGlobalFlags(cmd *cobra.Command, opts *Options) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.Org, "org", "", "Organization name (default from config)")
	pf.BoolVar(&opts.DryRun, "dry-run", false, "Preview the plan without mutating anything")
	pf.BoolVarP(&opts.Yes, "yes", "y", false, "Skip the confirmation prompt")
	pf.StringVarP(&opts.Format, "output", "o", "table", "Output format (table, json)")
	pf.CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")
}
