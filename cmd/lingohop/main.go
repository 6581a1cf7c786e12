package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/lingohop/internal/cli"
	"codeberg.org/snonux/lingohop/internal/packages"
	"codeberg.org/snonux/lingohop/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd.Context(), args, flags)
	}

	languagesCmd := cli.CreateLanguagesCommand()
	languagesCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withProcessor(cmd.Context(), flags, func(p *processor.Processor) error {
			return p.ListLanguages()
		})
	}

	routeCmd := cli.CreateRouteCommand()
	routeCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withProcessor(cmd.Context(), flags, func(p *processor.Processor) error {
			return p.ShowRoute(args[0], args[1])
		})
	}

	historyCmd := cli.CreateHistoryCommand(flags)
	historyCmd.RunE = func(cmd *cobra.Command, args []string) error {
		search := ""
		if len(args) > 0 {
			search = args[0]
		}
		return withProcessor(cmd.Context(), flags, func(p *processor.Processor) error {
			return p.ShowHistory(cmd.Context(), search)
		})
	}

	serveCmd := cli.CreateServeCommand(flags)
	serveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return withProcessor(cmd.Context(), flags, func(p *processor.Processor) error {
			return p.Serve(cmd.Context())
		})
	}

	rootCmd.AddCommand(languagesCmd, routeCmd, historyCmd, serveCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runCommand(ctx context.Context, args []string, flags *cli.Flags) error {
	// Handle --list-packages flag
	if flags.ListPackages {
		return packages.NewLister(cli.GetPackagesDir()).ListInstalled()
	}

	return withProcessor(ctx, flags, func(p *processor.Processor) error {
		// Handle --archive flag
		if flags.Archive {
			return p.ArchiveHistory()
		}

		// Handle batch processing
		if flags.BatchFile != "" {
			return p.ProcessBatch(ctx)
		}

		return p.ProcessText(ctx, args)
	})
}

func withProcessor(ctx context.Context, flags *cli.Flags, fn func(*processor.Processor) error) error {
	proc, err := processor.NewProcessor(ctx, flags)
	if err != nil {
		return err
	}
	defer proc.Close()

	return fn(proc)
}
