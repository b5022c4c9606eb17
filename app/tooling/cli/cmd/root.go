// Package cmd contains the groove command line tool for inspecting a node.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	host        string
	genesisPath string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&host, "host", "n", "localhost:9080", "Host of the node private API.")
	rootCmd.PersistentFlags().StringVarP(&genesisPath, "genesis", "g", "zblock/genesis.json", "Path to the genesis file.")
}

var rootCmd = &cobra.Command{
	Use:   "groove",
	Short: "Inspect a node from the command line",
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
