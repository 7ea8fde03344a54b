package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skms-labs/identity-core/internal/keyring"
	"github.com/skms-labs/identity-core/internal/service"
)

var createSeedCmd = &cobra.Command{
	Use:   "create-seed NAME",
	Short: "Generate a new seed phrase and populate its standard addresses",
	Long: `create-seed generates a fresh BIP-39 mnemonic of the requested word
count, then derives and persists the root address and a default-path
address for every registered network sharing the chosen scheme.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		words, _ := cmd.Flags().GetInt("words")
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

		mnemonic, err := svc.TryCreateSeedWithLength(args[0], words, scheme)
		if err != nil {
			return fmt.Errorf("create seed: %w", err)
		}

		fmt.Printf("Generated seed phrase for %q:\n%s\n", args[0], mnemonic)
		fmt.Printf("\nSECURITY WARNING: store this phrase safely. Anyone who has it controls every address derived from it.\n")
		return nil
	},
}

var importSeedCmd = &cobra.Command{
	Use:   "import-seed NAME MNEMONIC",
	Short: "Import an existing seed phrase and populate its standard addresses",
	Args:  cobra.ExactArgs(2),
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

		if err := svc.ImportSeed(args[0], args[1], scheme); err != nil {
			return fmt.Errorf("import seed: %w", err)
		}
		fmt.Printf("Imported seed %q.\n", args[0])
		return nil
	},
}

var removeSeedCmd = &cobra.Command{
	Use:   "remove-seed NAME",
	Short: "Remove every address derived from a seed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := openService()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := svc.RemoveIdentitiesForSeed(args[0]); err != nil {
			return fmt.Errorf("remove seed: %w", err)
		}
		fmt.Printf("Removed all identities for seed %q.\n", args[0])
		return nil
	},
}

var proposeSeedCmd = &cobra.Command{
	Use:   "propose-seed",
	Short: "Generate a seed phrase without persisting it",
	RunE: func(cmd *cobra.Command, args []string) error {
		words, _ := cmd.Flags().GetInt("words")
		mnemonic, err := service.TryCreateSeedPhraseProposal(words)
		if err != nil {
			return err
		}
		fmt.Println(mnemonic)
		return nil
	},
}

func init() {
	createSeedCmd.Flags().IntP("words", "w", 24, "word count (12, 15, 18, 21, or 24)")
	createSeedCmd.Flags().StringP("scheme", "s", "sr25519", "signature scheme (ed25519, sr25519, ecdsa)")

	importSeedCmd.Flags().StringP("scheme", "s", "sr25519", "signature scheme (ed25519, sr25519, ecdsa)")

	proposeSeedCmd.Flags().IntP("words", "w", 24, "word count (12, 15, 18, 21, or 24)")

	rootCmd.AddCommand(createSeedCmd, importSeedCmd, removeSeedCmd, proposeSeedCmd)
}
