// Package flagcli implements the flagrant command-line client, grounded on
// the teacher's internal/cli package: a cobra root command with a persistent
// --server flag, JSON/plain output switching, and one subcommand file per
// resource verb.
package flagcli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mbuczko/flagrant/internal/flagclient"
)

var (
	jsonOutput bool
	serverURL  string
	session    *flagclient.Session
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

var rootCmd = &cobra.Command{
	Use:   "flagrant [command] [flags]",
	Short: "flagrant CLI - manage projects, environments, features and variants",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		session = flagclient.NewSession(serverURL)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	// Load a .env file from the working directory, if present, so
	// FLAGRANT_SERVER can set the default --server value for local dev
	// without exporting it into the shell. Mirrors the teacher's
	// PreprocessYAML, which does the same ahead of template expansion.
	_ = godotenv.Load()

	defaultServer := os.Getenv("FLAGRANT_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultServer, "flagrant server base URL")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "output in JSON format")
}

// Execute runs the root command, printing errors in the chosen output format.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		if jsonOutput {
			printJSON(map[string]string{"error": err.Error()})
		} else {
			errorLabel.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func printResult(v any) {
	if jsonOutput {
		printJSON(v)
		return
	}
	fmt.Printf("%+v\n", v)
}
