package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "capture <object.attr>...",
		Short: "Cache curves so they can be restored",
		Long: "Caches the animation curves of the given attributes, e.g. locator1.tx, replacing any\n" +
			"earlier capture. Curves without keys are skipped. This command is not undoable.",
		Run: runCapture,
	}

	RootCmd.AddCommand(cmd)
}

func runCapture(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	ss, err := openSession(ctx)
	if err != nil {
		exitErr("open", err)
	}
	defer ss.Close()

	if err := ss.svc.Capture(ctx, args); err != nil {
		exitErr("capture", err)
	}
	if err := ss.save(ctx); err != nil {
		exitErr("capture", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"captured":%d}`+"\n", ss.svc.Snapshots().Len())
}
