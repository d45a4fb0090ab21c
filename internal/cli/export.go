package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export curves as JSON",
		Long:  "Export curves with every key and tangent as JSON. Filter by object with -o.",
		Run:   runExport,
	}

	cmd.Flags().StringP("object", "o", "", "Filter by object")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	object, _ := cmd.Flags().GetString("object")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	curves, err := s.ExportAll(cmd.Context(), object)
	if err != nil {
		exitErr("export", err)
	}

	b, _ := json.MarshalIndent(curves, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
