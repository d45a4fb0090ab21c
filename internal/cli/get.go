package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/keyreducer/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get <object.attr>",
		Short: "Show a curve with its keys",
		Args:  cobra.ExactArgs(1),
		Run:   runGet,
	}

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	id, err := model.ParseCurveID(args[0])
	if err != nil {
		exitErr("get", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	curve, err := s.GetCurve(cmd.Context(), id)
	if err != nil {
		exitErr("get", err)
	}

	b, _ := json.MarshalIndent(curve, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
