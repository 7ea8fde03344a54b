package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skms-labs/identity-core/internal/keyring"
	"github.com/skms-labs/identity-core/internal/records"
)

var createAddressCmd = &cobra.Command{
	Use:   "create-address SEED_NAME SEED_PHRASE PATH NETWORK_KEY_HEX",
	Short: "Derive and persist a single address",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		schemeName, _ := cmd.Flags().GetString("scheme")
		scheme, err := keyring.ParseScheme(schemeName)
		if err != nil {
			return err
		}

		svc, closeDB, err := openService()
		if err != nil {
			return err
		}
		defer closeDB()

		addressKey, err := svc.TryCreateAddress(args[0], args[1], scheme, args[2], args[3])
		if err != nil {
			return fmt.Errorf("create address: %w", err)
		}
		fmt.Printf("Address key: %s\n", addressKey.Hex())
		return nil
	},
}

var deleteAddressCmd = &cobra.Command{
	Use:   "delete-address ADDRESS_KEY_HEX NETWORK_KEY_HEX",
	Short: "Remove a single network membership from an address",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := openService()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := svc.DeleteAddress(args[0], args[1]); err != nil {
			return fmt.Errorf("delete address: %w", err)
		}
		fmt.Println("Deleted.")
		return nil
	},
}

var listAddressesCmd = &cobra.Command{
	Use:   "list [SEED_NAME]",
	Short: "List every address, or every address belonging to SEED_NAME",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := openService()
		if err != nil {
			return err
		}
		defer closeDB()

		all, err := svc.PrintAllIdentities()
		if err != nil {
			return err
		}
		for _, e := range all {
			if len(args) == 1 && e.Details.SeedName != args[0] {
				continue
			}
			printAddress(e.MultiSigner, e.Details)
		}
		return nil
	},
}

func printAddress(ms keyring.MultiSigner, details *records.AddressDetails) {
	addressKey := keyring.NewAddressKey(ms)
	fmt.Printf("%s  seed=%-16s path=%-20s scheme=%-8s networks=%d\n",
		addressKey.Hex(), details.SeedName, details.Path, details.Scheme, len(details.NetworkID))
}

func init() {
	createAddressCmd.Flags().StringP("scheme", "s", "sr25519", "signature scheme (ed25519, sr25519, ecdsa)")
	rootCmd.AddCommand(createAddressCmd, deleteAddressCmd, listAddressesCmd)
}
