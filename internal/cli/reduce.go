package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/keyreducer/internal/reducer"
)

func init() {
	cmd := &cobra.Command{
		Use:   "reduce <object.attr>...",
		Short: "Reduce the keys of animation curves",
		Long: `Reduce the keys of the given animated attributes, e.g. locator1.tx.

  -v, --value      the tolerance used for the reduction (default: 0.5, or the config file)
  --start          if specified, keys before this frame are left untouched
  --end            if specified, keys after this frame are left untouched
  --pre-bake       bake the curve to one key per frame before reducing. This removes
                   any broken or weighted tangents from the curve.

All curves are reduced as one undoable action.`,
		Run: runReduce,
	}

	cmd.Flags().Float64P("value", "v", 0, "Tolerance (default from config)")
	cmd.Flags().Int("start", 0, "First frame to reduce")
	cmd.Flags().Int("end", 0, "Last frame to reduce")
	cmd.Flags().Bool("pre-bake", false, "Bake to one key per frame first")

	RootCmd.AddCommand(cmd)
}

func runReduce(cmd *cobra.Command, args []string) {
	opts := reducer.Options{Tolerance: cfg.Tolerance, PreBake: cfg.PreBake}
	if cmd.Flags().Changed("value") {
		opts.Tolerance, _ = cmd.Flags().GetFloat64("value")
	}
	if cmd.Flags().Changed("start") {
		start, _ := cmd.Flags().GetInt("start")
		opts.Window.Start = &start
	}
	if cmd.Flags().Changed("end") {
		end, _ := cmd.Flags().GetInt("end")
		opts.Window.End = &end
	}
	if cmd.Flags().Changed("pre-bake") {
		opts.PreBake, _ = cmd.Flags().GetBool("pre-bake")
	}

	ctx := cmd.Context()
	ss, err := openSession(ctx)
	if err != nil {
		exitErr("open", err)
	}
	defer ss.Close()

	res, err := ss.svc.Reduce(ctx, args, opts)
	if err != nil {
		exitErr("reduce", err)
	}
	if err := ss.save(ctx); err != nil {
		exitErr("reduce", err)
	}

	b, _ := json.MarshalIndent(res, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
