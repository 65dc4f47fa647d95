package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the scholar application
var rootCmd = &cobra.Command{
	Use:   "scholar",
	Short: "MCP server for Google Calendar, Google Drive and the student directory",
	Long: `scholar exposes a small set of Google Calendar and Google Drive operations,
plus a read-only student directory, as tools for AI assistants speaking the
Model Context Protocol (MCP).`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// globals holds the persistent flags shared by all subcommands.
var globals globalOptions

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "scholar version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scholar",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("scholar version %s\n", version)
		},
	}
}

func init() {
	globals.bind(rootCmd)

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
