package cmd

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everFinance/tokenregistry/schema"
)

func TestParseEntryArgs(t *testing.T) {
	ea, err := parseEntryArgs("USDX", "USD X", "https://x.io/logo.png",
		`["stablecoin","usd"]`,
		`[{"key":"website","value":"https://x.io"},{"key":"coingecko","value":"usdx"}]`)
	require.NoError(t, err)
	assert.Equal(t, schema.EntryArgs{
		Symbol:  "USDX",
		Name:    "USD X",
		LogoUrl: "https://x.io/logo.png",
		Tags:    []string{"stablecoin", "usd"},
		Extensions: []schema.Extension{
			{Key: "website", Value: "https://x.io"},
			{Key: "coingecko", Value: "usdx"},
		},
	}, ea)

	ea, err = parseEntryArgs("A", "", "", "[]", "[]")
	require.NoError(t, err)
	assert.Nil(t, ea.Tags)
	assert.Nil(t, ea.Extensions)

	_, err = parseEntryArgs("A", "", "", `"x"`, "[]")
	assert.Error(t, err)
	_, err = parseEntryArgs("A", "", "", `[1]`, "[]")
	assert.Error(t, err)
	_, err = parseEntryArgs("A", "", "", "[]", `[{"key":"a"}]`)
	assert.Error(t, err)
	_, err = parseEntryArgs("A", "", "", "[]", `{`)
	assert.Error(t, err)
}

func TestParseKeys(t *testing.T) {
	const system, tokenProgram = "11111111111111111111111111111111", "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

	_, _, _, err := parseKeys("", "bad", system)
	assert.Error(t, err)
	_, _, _, err = parseKeys("", "", system)
	assert.Error(t, err)
	_, _, _, err = parseKeys("not-a-key", "", system)
	assert.Error(t, err)

	signers, u, m, err := parseKeys("", system, tokenProgram)
	require.NoError(t, err)
	assert.Empty(t, signers)
	assert.True(t, u.IsZero())
	assert.Equal(t, tokenProgram, m.String())

	key := solana.NewWallet().PrivateKey
	signers, u, _, err = parseKeys(key.String(), "", tokenProgram)
	require.NoError(t, err)
	require.Len(t, signers, 1)
	assert.Equal(t, key.PublicKey(), u)
}
