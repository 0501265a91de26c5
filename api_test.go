package tokenregistry

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everFinance/tokenregistry/schema"
	"github.com/everFinance/tokenregistry/sdk"
)

func newTestRegistry(t *testing.T) (*TokenRegistry, *sdk.SDK) {
	gin.SetMode(gin.TestMode)
	s, err := New(schema.Config{BoltDir: t.TempDir(), Faucet: true})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	srv := httptest.NewServer(s.engine)
	t.Cleanup(srv.Close)
	cli, err := sdk.NewSDK(srv.URL)
	require.NoError(t, err)
	return s, cli
}

type fixture struct {
	authority solana.PublicKey
	collector solana.PublicKey
	feeMint   solana.PublicKey
}

func setupRegistry(t *testing.T, cli *sdk.SDK, feeAmount uint64) fixture {
	f := fixture{
		authority: solana.NewWallet().PublicKey(),
		collector: solana.NewWallet().PublicKey(),
		feeMint:   solana.NewWallet().PublicKey(),
	}
	require.NoError(t, cli.Cli.Airdrop(f.authority, 1_000_000_000))
	require.NoError(t, cli.Cli.CreateMint(f.feeMint, 2, f.authority))
	_, err := cli.InitializeRegistry(f.authority, f.feeMint, f.collector, feeAmount)
	require.NoError(t, err)
	return f
}

func newFundedUser(t *testing.T, cli *sdk.SDK, f fixture, feeTokens uint64) solana.PublicKey {
	user := solana.NewWallet().PublicKey()
	require.NoError(t, cli.Cli.Airdrop(user, 1_000_000_000))
	if feeTokens > 0 {
		require.NoError(t, cli.Cli.MintTo(f.feeMint, user, feeTokens))
	}
	return user
}

func newTokenMint(t *testing.T, cli *sdk.SDK) solana.PublicKey {
	mint := solana.NewWallet().PublicKey()
	require.NoError(t, cli.Cli.CreateMint(mint, 9, solana.NewWallet().PublicKey()))
	return mint
}

func TestInfo(t *testing.T) {
	s, cli := newTestRegistry(t)
	info, err := cli.Cli.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, s.ProgramID().String(), info.ProgramId)
	assert.Equal(t, s.Reader().Addresses().Head.String(), info.Head)
	assert.Equal(t, uint64(0), info.TxCount)

	_, err = cli.Cli.GetMeta()
	assert.Error(t, err)
	_, err = cli.Cli.GetEntries()
	assert.Error(t, err)
}

func TestRegistryOverHttp(t *testing.T) {
	_, cli := newTestRegistry(t)
	f := setupRegistry(t, cli, 150)

	meta, err := cli.Cli.GetMeta()
	require.NoError(t, err)
	assert.Equal(t, uint64(150), meta.FeeAmount)
	assert.Equal(t, "1.5", meta.FeeAmountUi)
	assert.Equal(t, uint8(2), meta.FeeDecimals)
	assert.Equal(t, f.authority.String(), meta.FeeUpdateAuthority)

	user := newFundedUser(t, cli, f, 1000)
	usdx, other := newTokenMint(t, cli), newTokenMint(t, cli)
	args := schema.EntryArgs{
		Symbol:     "USDX",
		Name:       "US Dollar X",
		LogoUrl:    "https://x/logo.png",
		Tags:       []string{"stablecoin"},
		Extensions: []schema.Extension{{Key: "website", Value: "https://x"}},
	}
	txId, err := cli.CreateEntry(user, usdx, args)
	require.NoError(t, err)
	assert.NotEmpty(t, txId)
	_, err = cli.CreateEntry(user, other, schema.EntryArgs{Symbol: "OTH"})
	require.NoError(t, err)

	entries, err := cli.Cli.GetEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "OTH", entries[0].TokenSymbol)
	assert.Equal(t, []string{}, entries[0].TokenTags)
	assert.Equal(t, usdx.String(), entries[1].TokenMint)
	assert.Equal(t, args.Extensions, entries[1].TokenExtensions)

	_, err = cli.CreateEntry(user, usdx, args)
	assert.ErrorIs(t, err, schema.ErrPreviouslyRegisteredMint)

	_, err = cli.DeleteEntry(user, usdx)
	require.NoError(t, err)
	entries, err = cli.Cli.GetEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	entry, err := cli.Cli.GetEntry(usdx)
	require.NoError(t, err)
	assert.True(t, entry.Deleted)

	_, err = cli.Cli.GetEntry(newTokenMint(t, cli))
	assert.Error(t, err)

	collectorAta, _, err := solana.FindAssociatedTokenAddress(f.collector, f.feeMint)
	require.NoError(t, err)
	acc, err := cli.Cli.GetAccount(collectorAta)
	require.NoError(t, err)
	assert.Equal(t, solana.TokenProgramID.String(), acc.Owner)

	info, err := cli.Cli.GetInfo()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), info.TxCount)
}

func TestRegistryErrorsOverHttp(t *testing.T) {
	_, cli := newTestRegistry(t)
	f := setupRegistry(t, cli, 10)

	_, err := cli.InitializeRegistry(f.authority, f.feeMint, f.collector, 10)
	assert.ErrorIs(t, err, schema.ErrAlreadyInitialized)

	stranger := newFundedUser(t, cli, f, 0)
	_, err = cli.UpdateFees(stranger, f.feeMint, f.collector, 1)
	assert.ErrorIs(t, err, schema.ErrInvalidFeeUpdateAuthority)
	_, err = cli.TransferFeeAuthority(stranger, stranger)
	assert.ErrorIs(t, err, schema.ErrInvalidFeeUpdateAuthority)

	_, err = cli.CreateEntry(stranger, newTokenMint(t, cli), schema.EntryArgs{Symbol: "X"})
	assert.ErrorIs(t, err, schema.ErrUninitializedAssociatedTokenAccount)

	// ledger errors carry no registry code
	poor := newFundedUser(t, cli, f, 5)
	_, err = cli.CreateEntry(poor, newTokenMint(t, cli), schema.EntryArgs{Symbol: "X"})
	require.Error(t, err)
	_, ok := schema.AsRegistryError(err)
	assert.False(t, ok)

	_, err = cli.Cli.SubmitInstruction(solana.NewInstruction(cli.Registry.ProgramID, nil, []byte{9}))
	assert.ErrorIs(t, err, schema.ErrInvalidInstructionData)
}

func TestSubmitTxBadRequest(t *testing.T) {
	s, _ := newTestRegistry(t)
	for _, body := range []string{
		`not json`,
		`{"data":"zz","accounts":[]}`,
		`{"data":"","accounts":[]}`,
		`{"data":"03","accounts":[{"pubkey":"not-base58"}]}`,
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tx", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		s.engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
}

func TestFaucetDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := New(schema.Config{BoltDir: t.TempDir()})
	require.NoError(t, err)
	defer s.Close()

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/faucet/"+solana.NewWallet().PublicKey().String()+"/10", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSignedTransactions(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s, err := New(schema.Config{BoltDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	srv := httptest.NewServer(s.engine)
	t.Cleanup(srv.Close)

	authority, user := solana.NewWallet().PrivateKey, solana.NewWallet().PrivateKey
	collector, feeMint, usdx := solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey()
	l := s.Ledger()
	require.NoError(t, l.Airdrop(authority.PublicKey(), 1_000_000_000))
	require.NoError(t, l.Airdrop(user.PublicKey(), 1_000_000_000))
	require.NoError(t, l.CreateMint(feeMint, 0, authority.PublicKey()))
	require.NoError(t, l.CreateMint(usdx, 6, authority.PublicKey()))
	_, err = l.MintTo(feeMint, user.PublicKey(), 10)
	require.NoError(t, err)

	// flags sent next to unsigned instructions are not trusted here
	unsigned, err := sdk.NewSDK(srv.URL)
	require.NoError(t, err)
	_, err = unsigned.InitializeRegistry(authority.PublicKey(), feeMint, collector, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrUnsignedTransaction.Error())

	cli, err := sdk.NewSDK(srv.URL, authority, user)
	require.NoError(t, err)
	_, err = cli.InitializeRegistry(authority.PublicKey(), feeMint, collector, 10)
	require.NoError(t, err)
	_, err = cli.CreateEntry(user.PublicKey(), usdx, schema.EntryArgs{Symbol: "USDX"})
	require.NoError(t, err)
	entry, err := cli.Cli.GetEntry(usdx)
	require.NoError(t, err)
	assert.Equal(t, user.PublicKey().String(), entry.TokenUpdateAuthority)

	// a signature by anyone but the claimed signer is rejected
	ix, err := cli.Registry.TransferFeeAuthority(authority.PublicKey(), user.PublicKey())
	require.NoError(t, err)
	tx, err := cli.Sign(ix)
	require.NoError(t, err)
	msg, err := tx.Message.MarshalBinary()
	require.NoError(t, err)
	forged, err := user.Sign(msg)
	require.NoError(t, err)
	tx.Signatures[0] = forged
	_, err = cli.Cli.SubmitTransaction(tx)
	require.Error(t, err)
	assert.Equal(t, authority.PublicKey().String(), mustMeta(t, cli).FeeUpdateAuthority)

	// a key the sdk does not hold cannot be claimed at all
	stranger := solana.NewWallet().PublicKey()
	ix, err = cli.Registry.TransferFeeAuthority(stranger, stranger)
	require.NoError(t, err)
	_, err = cli.Sign(ix)
	assert.Error(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tx", strings.NewReader(`{"transaction":"not base64"}`))
	req.Header.Set("Content-Type", "application/json")
	s.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func mustMeta(t *testing.T, cli *sdk.SDK) schema.RespMeta {
	meta, err := cli.Cli.GetMeta()
	require.NoError(t, err)
	return meta
}
