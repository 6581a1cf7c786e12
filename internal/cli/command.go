package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/lingohop/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lingohop [text] [route]",
		Short: "Multi-hop offline translator",
		Long: `lingohop translates text with installed translation packages. When no
package covers a language pair directly, it chains packages through
intermediate languages (en -> es -> de).

A route is written as codes separated by colons. Two codes let lingohop
find the shortest chain, more codes are used as given. A single code X
means X:en.

Examples:
  lingohop "Hello friend" en:de     # Translate, auto-routing if needed
  echo "Hola" | lingohop es:en      # Read text from stdin
  lingohop -t "Bonjour" fr:es:de    # Explicit chain
  lingohop --batch texts.txt        # Translate every line of a file
  lingohop --list-packages          # Show installed packages`,
		Args:          cobra.MaximumNArgs(2),
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateLanguagesCommand creates the languages subcommand
func CreateLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List installed languages and language pairs",
		Args:  cobra.NoArgs,
	}
}

// CreateRouteCommand creates the route subcommand
func CreateRouteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "route FROM TO",
		Short: "Show the package chain used between two languages",
		Args:  cobra.ExactArgs(2),
	}
}

// CreateHistoryCommand creates the history subcommand
func CreateHistoryCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [search]",
		Short: "Show recent translations, optionally filtered by text",
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.Flags().IntVarP(&flags.HistoryLimit, "limit", "n", flags.HistoryLimit, "Maximum number of entries")
	return cmd
}

// CreateServeCommand creates the serve subcommand
func CreateServeCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve translations over HTTP",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVar(&flags.ServerAddress, "address", flags.ServerAddress, "Listen address")
	viper.BindPFlag("server.address", cmd.Flags().Lookup("address"))
	return cmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.lingohop.yaml)")
	cmd.PersistentFlags().StringVarP(&flags.PackagesDir, "packages", "p", "", "Packages directory (default: next to the binary or ~/.local/share/lingohop/packages)")
	cmd.PersistentFlags().StringVar(&flags.Backend, "backend", flags.Backend, "Translator backend: server, openai or gemini")
	cmd.PersistentFlags().StringVar(&flags.ServerURL, "server-url", "", "Inference server URL for the server backend")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format: text or json")
	cmd.PersistentFlags().BoolVar(&flags.NoHistory, "no-history", false, "Do not record translations in the history database")

	// Local flags
	cmd.Flags().StringVarP(&flags.Text, "text", "t", "", "Text to translate (default: first argument or stdin)")
	cmd.Flags().StringVarP(&flags.Route, "route", "r", flags.Route, "Default route when none is given as argument")
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Translate texts from file (one per line, optionally 'ROUTE = TEXT')")
	cmd.Flags().BoolVar(&flags.ListPackages, "list-packages", false, "List installed translation packages")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Archive the history database and start a new one")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("packages.dir", cmd.PersistentFlags().Lookup("packages"))
	viper.BindPFlag("translator.backend", cmd.PersistentFlags().Lookup("backend"))
	viper.BindPFlag("translator.url", cmd.PersistentFlags().Lookup("server-url"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.format", cmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("route.default", cmd.Flags().Lookup("route"))
}
