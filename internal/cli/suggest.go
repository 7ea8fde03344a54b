package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skms-labs/identity-core/internal/service"
)

var suggestPathNameCmd = &cobra.Command{
	Use:   "suggest-path-name PATH",
	Short: "Suggest a human-readable label for a derivation path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := service.SuggestPathName(args[0])
		if err != nil {
			return err
		}
		fmt.Println(name)
		return nil
	},
}

var suggestNPlusOneCmd = &cobra.Command{
	Use:   "suggest-n-plus-one BASE_PATH SEED_NAME NETWORK_KEY_HEX",
	Short: "Propose the next sibling path after BASE_PATH for SEED_NAME on NETWORK_KEY_HEX",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, closeDB, err := openService()
		if err != nil {
			return err
		}
		defer closeDB()

		next, err := svc.SuggestNPlusOne(args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Println(next)
		return nil
	},
}

var checkDerivationFormatCmd = &cobra.Command{
	Use:   "check-derivation-format PATH",
	Short: "Report whether PATH parses as a valid derivation path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if service.CheckDerivationFormat(args[0]) {
			fmt.Println("valid")
			return nil
		}
		fmt.Println("invalid")
		return nil
	},
}

var guessCmd = &cobra.Command{
	Use:   "guess PREFIX",
	Short: "List BIP-39 words starting with PREFIX",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(strings.Join(service.Guess(args[0]), " "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestPathNameCmd, suggestNPlusOneCmd, checkDerivationFormatCmd, guessCmd)
}
