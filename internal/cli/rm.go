package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/keyreducer/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "rm <object.attr>",
		Short: "Delete a curve",
		Long:  "Delete a curve and all of its keys. This is permanent and not undoable.",
		Args:  cobra.ExactArgs(1),
		Run:   runRm,
	}

	RootCmd.AddCommand(cmd)
}

func runRm(cmd *cobra.Command, args []string) {
	id, err := model.ParseCurveID(args[0])
	if err != nil {
		exitErr("rm", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.RmCurve(cmd.Context(), id); err != nil {
		exitErr("rm", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"object":%q,"attr":%q}`+"\n", id.Object, id.Attr)
}
