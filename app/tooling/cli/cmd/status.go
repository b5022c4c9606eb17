package cmd

import (
	"fmt"
	"log"
	"strings"

	"github.com/groovechain/groovechain/foundation/blockchain/nodeclient"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the node's current tip information.",
	Run:   statusRun,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusRun(cmd *cobra.Command, args []string) {
	client := nodeclient.New(host)

	status, err := client.Status()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("tip id:     ", status.TipID)
	fmt.Println("tip height: ", status.TipHeight)
	fmt.Println("blocks:     ", status.Blocks)
	fmt.Println("miners:     ", strings.Join(status.Miners, ", "))
}
