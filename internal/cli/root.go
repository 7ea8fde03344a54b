// Package cli wires the identity-core service onto a cobra/viper command
// tree, following the teacher's root.go pattern: a single PersistentFlags
// config file plus viper.AutomaticEnv, with subcommands registered via
// init().
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skms-labs/identity-core/internal/constants"
	"github.com/skms-labs/identity-core/internal/history"
	"github.com/skms-labs/identity-core/internal/kvstore"
	"github.com/skms-labs/identity-core/internal/service"
)

var (
	cfgFile string
	dbPath  string
	version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "identity-core",
	Short: "Identity & derivation core for an air-gapped substrate signer",
	Long: `identity-core manages derivation paths, seed phrases, and the
address catalogue for a substrate-style signer device: deriving
Ed25519/Sr25519/Ecdsa keys from BIP-39 seed phrases along
//hard/soft///password paths, persisting the result with an append-only
audit log, and exporting identities as QR codes.`,
	Version: version,
}

// Execute runs the command tree; it is the sole entry point main() calls.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.identity-core.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the identity database (default is $HOME/.identity-core.db)")
	rootCmd.PersistentFlags().Bool("verbose", false, "verbose output (no command reads this flag)")

	viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".identity-core")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// resolvedDBPath returns the configured database path, falling back to
// $HOME/.identity-core.db.
func resolvedDBPath() (string, error) {
	if p := viper.GetString("db"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return home + "/.identity-core.db", nil
}

// openService opens (creating if necessary) the configured database,
// ensures its trees exist, bootstraps the default network table, and
// returns a ready-to-use service along with a closer the caller must defer.
func openService() (*service.Service, func() error, error) {
	path, err := resolvedDBPath()
	if err != nil {
		return nil, nil, err
	}
	db, err := kvstore.Open(path)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureTrees(constants.ADDRTREE, constants.SPECSTREE, history.Tree); err != nil {
		db.Close()
		return nil, nil, err
	}
	svc := service.New(db)
	if err := svc.Bootstrap(); err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, db.Close, nil
}
