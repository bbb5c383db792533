// This program provides operator access to a running ledger node.
package main

import "github.com/ledgerlabs/powchain/app/tooling/cli/cmd"

func main() {
	cmd.Execute()
}
