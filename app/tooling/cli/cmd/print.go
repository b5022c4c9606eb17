package cmd

import (
	"fmt"
	"log"

	"github.com/groovechain/groovechain/foundation/blockchain/chain"
	"github.com/groovechain/groovechain/foundation/blockchain/genesis"
	"github.com/groovechain/groovechain/foundation/blockchain/nodeclient"
	"github.com/spf13/cobra"
)

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Fetch the block set and print the fork structure.",
	Run:   printRun,
}

func init() {
	rootCmd.AddCommand(printCmd)
}

func printRun(cmd *cobra.Command, args []string) {
	gen, err := genesis.Load(genesisPath)
	if err != nil {
		log.Fatal(err)
	}

	client := nodeclient.New(host)
	blocks, err := client.FetchBlocks()
	if err != nil {
		log.Fatal(err)
	}

	tree, unattached, err := chain.NewFromBlocks(gen.Block(), blocks, gen.Difficulty)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Print(tree.Render())

	tip := tree.SelectParent()
	fmt.Printf("tip: %s height: %d miner: %s\n", tip.ID, tip.Header.Height, tip.Header.MinerLabel)

	if len(unattached) > 0 {
		fmt.Printf("unattached blocks: %d\n", len(unattached))
	}
}
