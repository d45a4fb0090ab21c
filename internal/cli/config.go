package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/keyreducer/internal/config"
)

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the keyreducer config file",
		// The file may not exist yet, so skip loading it.
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default settings to the config file",
		Long: "Writes db_path, tolerance and pre_bake with their built-in values to --config,\n" +
			"$KEYREDUCER_CONFIG or ~/.keyreducer/config.yaml. An existing file is kept\n" +
			"unless --force is given.",
		Run: runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	configCmd.AddCommand(initCmd)
	RootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	force, _ := cmd.Flags().GetBool("force")

	path, err := config.Init(configPath, force)
	if err != nil {
		exitErr("config init", err)
	}

	b, _ := json.MarshalIndent(map[string]string{"config": path}, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
