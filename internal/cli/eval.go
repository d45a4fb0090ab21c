package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/keyreducer/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "eval <object.attr>",
		Short: "Evaluate a curve at given times",
		Long:  "Evaluate a curve at one or more times, e.g. eval locator1.tx --at 1 --at 2.5",
		Args:  cobra.ExactArgs(1),
		Run:   runEval,
	}

	cmd.Flags().Float64Slice("at", nil, "Times to evaluate (repeatable)")
	cmd.MarkFlagRequired("at")

	RootCmd.AddCommand(cmd)
}

type evalPoint struct {
	Time  float64 `json:"time"`
	Value float64 `json:"value"`
}

func runEval(cmd *cobra.Command, args []string) {
	times, _ := cmd.Flags().GetFloat64Slice("at")
	id, err := model.ParseCurveID(args[0])
	if err != nil {
		exitErr("eval", err)
	}

	ctx := cmd.Context()
	ss, err := openSession(ctx)
	if err != nil {
		exitErr("open", err)
	}
	defer ss.Close()

	c, err := ss.scene.Resolve(ctx, id)
	if err != nil {
		exitErr("eval", err)
	}
	points := make([]evalPoint, 0, len(times))
	for _, t := range times {
		points = append(points, evalPoint{Time: t, Value: c.Evaluate(t)})
	}

	b, _ := json.MarshalIndent(points, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
