package cmd

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the node's status.",
	RunE:  statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, args []string) error {
	var result map[string]any
	resp, err := client().R().
		SetResult(&result).
		Get("/v1/node/status")
	if err != nil {
		return err
	}
	if err := check(resp); err != nil {
		return err
	}

	return printJSON(cmd, result)
}
