package cmd

import (
	"fmt"

	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
	"github.com/ledgerlabs/powchain/foundation/blockchain/peer"
	"github.com/spf13/cobra"
)

var verify bool

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's chain.",
	RunE:  chainRun,
}

func init() {
	rootCmd.AddCommand(chainCmd)
	chainCmd.Flags().BoolVar(&verify, "verify", false, "Validate the hash links and proofs of the chain.")
}

func chainRun(cmd *cobra.Command, args []string) error {
	var cs peer.ChainState
	resp, err := client().R().
		SetResult(&cs).
		Get("/chain")
	if err != nil {
		return err
	}
	if err := check(resp); err != nil {
		return err
	}

	if verify {
		if err := database.ValidateChain(cs.Chain, func(string, ...any) {}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "chain of %d blocks is valid\n", len(cs.Chain))
		return nil
	}

	return printJSON(cmd, cs)
}
