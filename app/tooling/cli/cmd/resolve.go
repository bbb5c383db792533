package cmd

import (
	"fmt"

	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Ask the node to reconcile its chain with its peers.",
	RunE:  resolveRun,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

func resolveRun(cmd *cobra.Command, args []string) error {
	var result struct {
		Message  string         `json:"message"`
		NewChain database.Chain `json:"new_chain"`
		Chain    database.Chain `json:"chain"`
	}
	resp, err := client().R().
		SetResult(&result).
		Get("/nodes/resolve")
	if err != nil {
		return err
	}
	if err := check(resp); err != nil {
		return err
	}

	length := len(result.Chain)
	if result.NewChain != nil {
		length = len(result.NewChain)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: length %d\n", result.Message, length)
	return nil
}
