// Command tick is the AOT compiler's command-line entry point: one
// subcommand that reads a source file and writes the interface and
// implementation C translation units (spec §6.1).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ticklang/tick"
	"github.com/ticklang/tick/ascii"
)

// printDiags renders diags to stderr, colorized when stderr is a terminal.
func printDiags(diags *tick.Diagnostics) {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		fmt.Fprintln(os.Stderr, diags.ColorError(ascii.DefaultTheme))
		return
	}
	fmt.Fprintln(os.Stderr, diags.Error())
}

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "tick",
		Short:         "tick compiles a Tick source file to portable C",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a tick.yaml project config")
	root.AddCommand(newEmitCCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newEmitCCmd() *cobra.Command {
	var outputBasename string
	cmd := &cobra.Command{
		Use:   "emitc <input.tick>",
		Short: "Emit <output_basename>.h and <output_basename>.c",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if outputBasename == "" {
				base := filepath.Base(input)
				outputBasename = strings.TrimSuffix(base, filepath.Ext(base))
			}

			cfg := tick.NewConfig()
			if configPath != "" {
				loaded, err := tick.LoadConfigFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			result, err := tick.CompileFile(input, tick.CompileOptions{Config: cfg})
			if err != nil {
				if result != nil && result.Diags != nil {
					printDiags(result.Diags)
				}
				return err
			}
			if result.Diags.Truncated() {
				printDiags(result.Diags)
			}
			return tick.WriteOutputs(result, outputBasename)
		},
	}
	cmd.Flags().StringVarP(&outputBasename, "output", "o", "", "output basename (default: input basename without extension)")
	return cmd
}
