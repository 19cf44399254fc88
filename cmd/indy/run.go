package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/indy-lang/indy"
)

func newInterpreter(cmd *cobra.Command) *indy.Indy {
	return indy.New(&indy.Config{
		Verbose:          verbose,
		Output:           cmd.OutOrStdout(),
		Input:            cmd.InOrStdin(),
		Diagnostics:      cmd.ErrOrStderr(),
		ShowErrorContext: true,
		ContextLines:     2,
	})
}

func printBanner(w io.Writer) {
	if !noBanner {
		FormatBanner(w)
	}
}

func runScript(cmd *cobra.Command, path string) error {
	printBanner(cmd.OutOrStdout())
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	interp := newInterpreter(cmd)
	if err := interp.ExecuteFile(string(data), path); err != nil {
		return errScriptFailed
	}
	return nil
}

// runStdin executes a script piped on standard input. The whole stream is
// the script, so prompts inside it see EOF and leave their variable unset.
func runStdin(cmd *cobra.Command) error {
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	printBanner(cmd.OutOrStdout())
	interp := newInterpreter(cmd)
	if err := interp.Execute(string(data)); err != nil {
		return errScriptFailed
	}
	return nil
}

func runREPL(cmd *cobra.Command) error {
	printBanner(cmd.OutOrStdout())
	FormatHint(cmd.OutOrStdout(), "Type :quit to exit, :vars to list variables.")

	interp := newInterpreter(cmd)
	cfg := indy.DefaultREPLConfig()
	cfg.ShowPrompts = term.IsTerminal(int(os.Stdin.Fd()))
	repl := indy.NewREPL(interp, cmd.InOrStdin(), cmd.OutOrStdout(), cfg)
	return repl.Run()
}
