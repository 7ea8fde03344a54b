package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the append-only audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := openService()
		if err != nil {
			return err
		}
		defer closeDB()

		events, err := svc.PrintHistory()
		if err != nil {
			return err
		}
		for i, ev := range events {
			if ev.Payload == nil {
				fmt.Printf("%4d  %s\n", i, ev.Event)
				continue
			}
			fmt.Printf("%4d  %-18s seed=%-16s path=%-20s network=%s\n",
				i, ev.Event, ev.Payload.SeedName, ev.Payload.Path, ev.Payload.NetworkGenesisHash)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
