package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/keyreducer/internal/snapshot"
)

func init() {
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore the last captured curves",
		Long: "Restores every curve cached by capture, including weighting, tangents and locks.\n" +
			"The capture is kept, so restore can be repeated. This command is undoable.",
		Args: cobra.NoArgs,
		Run:  runRestore,
	}

	RootCmd.AddCommand(cmd)
}

func runRestore(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	ss, err := openSession(ctx)
	if err != nil {
		exitErr("open", err)
	}
	defer ss.Close()

	a, restoreErr := ss.svc.Restore(ctx)
	if errors.Is(restoreErr, snapshot.ErrNothingCaptured) {
		exitErr("restore", fmt.Errorf("no attribute was cached, run capture first"))
	}
	// Curves restored before a failure are kept, so save either way.
	if err := ss.save(ctx); err != nil {
		exitErr("restore", err)
	}
	if restoreErr != nil {
		exitErr("restore", restoreErr)
	}

	b, _ := json.MarshalIndent(a, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
