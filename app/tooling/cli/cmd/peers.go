package cmd

import (
	"github.com/spf13/cobra"
)

var peersCmd = &cobra.Command{
	Use:   "peers",
	Short: "Manage the node's known peers.",
}

var peersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the node's known peers.",
	RunE:  peersListRun,
}

var peersRegisterCmd = &cobra.Command{
	Use:   "register address...",
	Short: "Register one or more peers with the node.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  peersRegisterRun,
}

func init() {
	rootCmd.AddCommand(peersCmd)
	peersCmd.AddCommand(peersListCmd)
	peersCmd.AddCommand(peersRegisterCmd)
}

func peersListRun(cmd *cobra.Command, args []string) error {
	var result map[string]any
	resp, err := client().R().
		SetResult(&result).
		Get("/nodes")
	if err != nil {
		return err
	}
	if err := check(resp); err != nil {
		return err
	}

	return printJSON(cmd, result)
}

func peersRegisterRun(cmd *cobra.Command, args []string) error {
	body := struct {
		Nodes []string `json:"nodes"`
	}{
		Nodes: args,
	}

	var result map[string]any
	resp, err := client().R().
		SetBody(body).
		SetResult(&result).
		Post("/nodes/register")
	if err != nil {
		return err
	}
	if err := check(resp); err != nil {
		return err
	}

	return printJSON(cmd, result)
}
