package cmd

import (
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to forge a new block.",
	RunE:  mineRun,
}

func init() {
	rootCmd.AddCommand(mineCmd)
}

func mineRun(cmd *cobra.Command, args []string) error {
	var result map[string]any
	resp, err := client().R().
		SetResult(&result).
		Get("/mine")
	if err != nil {
		return err
	}
	if err := check(resp); err != nil {
		return err
	}

	return printJSON(cmd, result)
}
