package cmd

import (
	"fmt"
	"log"

	"github.com/groovechain/groovechain/foundation/blockchain/nodeclient"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the network parameters the node is running with.",
	Run:   configRun,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func configRun(cmd *cobra.Command, args []string) {
	client := nodeclient.New(host)

	cfg, err := client.Config()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("chain id:   ", cfg.ChainID)
	fmt.Println("difficulty: ", cfg.Difficulty)
	fmt.Println("genesis id: ", cfg.GenesisID)
}
