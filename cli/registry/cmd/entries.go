package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"

	"github.com/everFinance/tokenregistry/sdk"
)

var asJson bool

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "list the live entries of a registry host",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := sdk.New(host).GetEntries()
		if err != nil {
			return err
		}
		if asJson {
			return json.NewEncoder(os.Stdout).Encode(entries)
		}
		for _, e := range entries {
			fmt.Printf("%-44s %-10s %s [%s]\n", e.TokenMint, e.TokenSymbol, e.TokenName, strings.Join(e.TokenTags, ","))
		}
		return nil
	},
}

var entryCmd = &cobra.Command{
	Use:   "entry <mint>",
	Short: "show the entry of one mint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mint, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return err
		}
		e, err := sdk.New(host).GetEntry(mint)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(entryCmd)

	entriesCmd.Flags().BoolVar(&asJson, "json", false, "print raw json")
}
