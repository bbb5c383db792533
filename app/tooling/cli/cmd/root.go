// Package cmd contains the ledger operator commands.
package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ledgerlabs/powchain/business/web/errs"
	"github.com/spf13/cobra"
)

var (
	nodeURL string
	timeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:5000", "Url of the node.")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 5*time.Minute, "How long to wait for the node to answer.")
}

var rootCmd = &cobra.Command{
	Use:          "cli",
	Short:        "Operate a proof of work ledger node",
	SilenceUsage: true,
}

// Execute runs the command selected on the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================

// client returns a resty client pointed at the configured node.
func client() *resty.Client {
	return resty.New().
		SetHostURL(nodeURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
}

// check turns a non 2xx response into an error carrying the node's message.
func check(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}

	var er errs.Response
	if err := json.Unmarshal(resp.Body(), &er); err != nil || er.Error == "" {
		return fmt.Errorf("node responded %s", resp.Status())
	}

	if len(er.Fields) > 0 {
		return fmt.Errorf("node responded %s: %s: %v", resp.Status(), er.Error, er.Fields)
	}

	return fmt.Errorf("node responded %s: %s", resp.Status(), er.Error)
}

// printJSON writes the value as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
