package cmd

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/everFinance/tokenregistry/schema"
	"github.com/everFinance/tokenregistry/sdk"
)

var (
	userKey string
	symbol  string
	name    string
	logoUrl string
	tagsJs  string
	extsJs  string
)

var createEntryCmd = &cobra.Command{
	Use:   "create-entry <mint>",
	Short: "register a mint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitEntry(args[0], func(s *sdk.SDK, user, mint solana.PublicKey, ea schema.EntryArgs) (string, error) {
			return s.CreateEntry(user, mint, ea)
		})
	},
}

var updateEntryCmd = &cobra.Command{
	Use:   "update-entry <mint>",
	Short: "overwrite the descriptive fields of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submitEntry(args[0], func(s *sdk.SDK, user, mint solana.PublicKey, ea schema.EntryArgs) (string, error) {
			return s.UpdateEntry(user, mint, ea)
		})
	},
}

var deleteEntryCmd = &cobra.Command{
	Use:   "delete-entry <mint>",
	Short: "tombstone an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, user, mint, err := clientFor(signingKey, userKey, args[0])
		if err != nil {
			return err
		}
		txId, err := s.DeleteEntry(user, mint)
		if err != nil {
			return err
		}
		fmt.Println(txId)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{createEntryCmd, updateEntryCmd, deleteEntryCmd} {
		rootCmd.AddCommand(c)
		c.Flags().StringVarP(&userKey, "user", "u", "", "base58 key of the acting user, defaults to the --key owner")
	}
	for _, c := range []*cobra.Command{createEntryCmd, updateEntryCmd} {
		c.Flags().StringVar(&symbol, "symbol", "", "token symbol")
		c.Flags().StringVar(&name, "name", "", "token name")
		c.Flags().StringVar(&logoUrl, "logo", "", "token logo url")
		c.Flags().StringVar(&tagsJs, "tags", "[]", `json list of tags, e.g. ["stablecoin"]`)
		c.Flags().StringVar(&extsJs, "extensions", "[]", `json list of key/value pairs, e.g. [{"key":"website","value":"https://x.io"}]`)
	}
}

func submitEntry(mintArg string, submit func(*sdk.SDK, solana.PublicKey, solana.PublicKey, schema.EntryArgs) (string, error)) error {
	ea, err := parseEntryArgs(symbol, name, logoUrl, tagsJs, extsJs)
	if err != nil {
		return err
	}
	s, user, mint, err := clientFor(signingKey, userKey, mintArg)
	if err != nil {
		return err
	}
	txId, err := submit(s, user, mint, ea)
	if err != nil {
		return err
	}
	fmt.Println(txId)
	return nil
}

func clientFor(key, user, mint string) (*sdk.SDK, solana.PublicKey, solana.PublicKey, error) {
	signers, u, m, err := parseKeys(key, user, mint)
	if err != nil {
		return nil, u, m, err
	}
	s, err := sdk.NewSDK(host, signers...)
	return s, u, m, err
}

// parseKeys resolves the signing key, the acting user and the mint. The user
// defaults to the owner of the signing key.
func parseKeys(key, user, mint string) ([]solana.PrivateKey, solana.PublicKey, solana.PublicKey, error) {
	var (
		signers []solana.PrivateKey
		u, m    solana.PublicKey
		err     error
	)
	if key != "" {
		k, err := solana.PrivateKeyFromBase58(key)
		if err != nil {
			return nil, u, m, fmt.Errorf("invalid key: %v", err)
		}
		signers = append(signers, k)
		u = k.PublicKey()
	}
	switch {
	case user != "":
		if u, err = solana.PublicKeyFromBase58(user); err != nil {
			return nil, u, m, fmt.Errorf("invalid user: %v", err)
		}
	case key == "":
		return nil, u, m, errors.New("either --key or --user is required")
	}
	if m, err = solana.PublicKeyFromBase58(mint); err != nil {
		return nil, u, m, fmt.Errorf("invalid mint: %v", err)
	}
	return signers, u, m, nil
}

func parseEntryArgs(symbol, name, logo, tags, exts string) (schema.EntryArgs, error) {
	ea := schema.EntryArgs{Symbol: symbol, Name: name, LogoUrl: logo}

	if !gjson.Valid(tags) || !gjson.Parse(tags).IsArray() {
		return ea, errors.New("tags must be a json list")
	}
	for _, t := range gjson.Parse(tags).Array() {
		if t.Type != gjson.String {
			return ea, fmt.Errorf("tag %s is not a string", t.Raw)
		}
		ea.Tags = append(ea.Tags, t.String())
	}

	if !gjson.Valid(exts) || !gjson.Parse(exts).IsArray() {
		return ea, errors.New("extensions must be a json list")
	}
	for _, e := range gjson.Parse(exts).Array() {
		key, value := e.Get("key"), e.Get("value")
		if !key.Exists() || !value.Exists() {
			return ea, fmt.Errorf("extension %s needs key and value", e.Raw)
		}
		ea.Extensions = append(ea.Extensions, schema.Extension{Key: key.String(), Value: value.String()})
	}
	return ea, nil
}
