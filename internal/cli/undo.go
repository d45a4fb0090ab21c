package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/keyreducer/internal/command"
)

func init() {
	undo := &cobra.Command{
		Use:   "undo",
		Short: "Undo the last reduce or restore",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runHistory(cmd, "undo", (*command.Service).Undo)
		},
	}
	redo := &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone action",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runHistory(cmd, "redo", (*command.Service).Redo)
		},
	}

	RootCmd.AddCommand(undo, redo)
}

func runHistory(cmd *cobra.Command, name string, step func(*command.Service, context.Context) (*command.Action, error)) {
	ctx := cmd.Context()
	ss, err := openSession(ctx)
	if err != nil {
		exitErr("open", err)
	}
	defer ss.Close()

	a, err := step(ss.svc, ctx)
	if err != nil {
		exitErr(name, err)
	}
	if err := ss.save(ctx); err != nil {
		exitErr(name, err)
	}

	b, _ := json.MarshalIndent(a, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
