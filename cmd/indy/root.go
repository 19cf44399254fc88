package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/indy-lang/indy/internal/version"
)

var (
	verbose  bool
	noBanner bool
)

// errScriptFailed marks a run that already reported its own diagnostics,
// so Execute only needs to set the exit code.
var errScriptFailed = errors.New("script failed")

var rootCmd = &cobra.Command{
	Use:   "indy [script.indy]",
	Short: "Interpreter for the Indy-lang command language",
	Long: `Indy runs line-oriented Indy-lang scripts: sequential console programs
with variables, string interpolation, prompts, timed waits and simple
branching, bracketed by start/end blocks.

With a script path it executes the file. With no arguments it starts an
interactive session, or reads a whole script from standard input when piped.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runScript(cmd, args[0])
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return runREPL(cmd)
		}
		return runStdin(cmd)
	},
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("indy %s\n", version.String()))

	defaultVerbose := os.Getenv("INDY_VERBOSE") == "1"
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", defaultVerbose,
		"Show engine diagnostics (also via INDY_VERBOSE=1)")
	rootCmd.PersistentFlags().BoolVar(&noBanner, "no-banner", false,
		"Suppress the startup banner")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errScriptFailed) {
			FormatError(os.Stderr, err)
		}
		os.Exit(1)
	}
}
