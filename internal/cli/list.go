package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/keyreducer/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List curves",
		Run:   runList,
	}

	cmd.Flags().StringP("object", "o", "", "Filter by object")
	cmd.Flags().IntP("limit", "l", 100, "Max results")
	cmd.Flags().Bool("names-only", false, "Only output object.attr names")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	object, _ := cmd.Flags().GetString("object")
	limit, _ := cmd.Flags().GetInt("limit")
	namesOnly, _ := cmd.Flags().GetBool("names-only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	curves, err := s.ListCurves(cmd.Context(), store.ListParams{
		Object: object,
		Limit:  limit,
	})
	if err != nil {
		exitErr("list", err)
	}

	if namesOnly {
		for _, c := range curves {
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s\n", c.Object, c.Attr)
		}
		return
	}

	b, _ := json.MarshalIndent(curves, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
