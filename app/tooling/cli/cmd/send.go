package cmd

import (
	"errors"

	"github.com/ledgerlabs/powchain/foundation/blockchain/database"
	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node's pending pool.",
	RunE:  sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Who the amount comes from.")
	sendCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Who the amount goes to.")
	sendCmd.Flags().StringVarP(&amount, "amount", "a", "0", "Amount to send, written as it should be hashed (10 or 10.0).")
}

func sendRun(cmd *cobra.Command, args []string) error {
	if sender == "" || recipient == "" {
		return errors.New("sender and recipient are required")
	}

	amt, err := database.ParseAmount(amount)
	if err != nil {
		return err
	}

	tx := database.Tx{
		Sender:    sender,
		Recipient: recipient,
		Amount:    amt,
	}

	var result map[string]any
	resp, err := client().R().
		SetBody(tx).
		SetResult(&result).
		Post("/transactions/new")
	if err != nil {
		return err
	}
	if err := check(resp); err != nil {
		return err
	}

	return printJSON(cmd, result)
}
