// Command procloop exercises the procloop engine from the shell: run a
// single command, a two-stage pipe, or stream a command's stdout line by
// line.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arnegard/procloop/internal/dlog"

	"github.com/arnegard/procloop"
)

func main() {
	defer dlog.Sync()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "procloop",
		Short: "Drive the procloop subprocess engine from the shell",
	}
	root.AddCommand(newRunCmd(), newPipeCmd(), newLinesCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run -- CMD [ARGS...]",
		Short: "Run a single command with inherited stdio",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := procloop.Run(context.Background(), procloop.Single(args), true)
			return err
		},
	}
}

func newPipeCmd() *cobra.Command {
	var sep string
	c := &cobra.Command{
		Use:   "pipe -- CMD1... '|' CMD2...",
		Short: "Run two commands connected by a pipe (left's stdout to right's stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			joined := strings.Join(args, " ")
			halves := strings.SplitN(joined, sep, 2)
			if len(halves) != 2 {
				return fmt.Errorf("expected two commands separated by %q", sep)
			}
			left := procloop.Single(strings.Fields(halves[0]))
			right := procloop.Single(strings.Fields(halves[1]))
			out, err := procloop.ReadString(context.Background(), procloop.PipeCmd(left, right))
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}
	c.Flags().StringVar(&sep, "sep", "|", "separator between the two commands")
	return c
}

func newLinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lines -- CMD [ARGS...]",
		Short: "Stream a command's stdout line by line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return procloop.EachLine(context.Background(), procloop.Single(args), false, func(line string) error {
				fmt.Println(line)
				return nil
			})
		},
	}
}
