package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the inboxai application
var rootCmd = &cobra.Command{
	Use:   "inboxai",
	Short: "Summarizes unread Gmail messages, attachments included",
	Long: `inboxai reads your unread Gmail messages, extracts the text of their
attachments (PDF, Word, Excel, CSV and images through OCR) and asks a
language model to summarize or categorize them.

It can run as:
  - An HTTP API for the browser extension (default)
  - An MCP (Model Context Protocol) server for AI assistants
  - A command-line tool`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// debugMode is shared by every subcommand.
var debugMode bool

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "inboxai version %s\n" .Version}}`)

	// If no subcommand is provided, run the HTTP API by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newSummarizeCmd())
	rootCmd.AddCommand(newCategoriesCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(newCleanupCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
