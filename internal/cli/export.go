package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export ADDRESS_KEY_HEX NETWORK_KEY_HEX OUT_PNG",
	Short: "Export an address's network membership as a QR code PNG",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := openService()
		if err != nil {
			return err
		}
		defer closeDB()

		exported, err := svc.ExportIdentity(args[0], args[1])
		if err != nil {
			return fmt.Errorf("export identity: %w", err)
		}
		if err := os.WriteFile(args[2], exported.PNG, 0600); err != nil {
			return fmt.Errorf("write %s: %w", args[2], err)
		}
		fmt.Printf("Payload: %s\nWrote QR code to %s\n", exported.Payload, args[2])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
