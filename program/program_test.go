package program_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/everFinance/tokenregistry/cache"
	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/ledger"
	"github.com/everFinance/tokenregistry/program"
	"github.com/everFinance/tokenregistry/rawdb"
	"github.com/everFinance/tokenregistry/schema"
	"github.com/everFinance/tokenregistry/sdk"
)

const lamports = 10_000_000_000

type harness struct {
	t         *testing.T
	ledger    *ledger.Ledger
	reg       *sdk.Registry
	authority solana.PublicKey
	collector solana.PublicKey
	feeMint   solana.PublicKey
}

func newHarness(t *testing.T) *harness {
	db, err := rawdb.NewBoltDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	c, err := cache.NewLocalCache(time.Minute)
	require.NoError(t, err)
	l, err := ledger.New(db, c)
	require.NoError(t, err)

	programID := solana.NewWallet().PublicKey()
	require.NoError(t, l.RegisterProgram(programID, program.NewProcessor()))
	reg, err := sdk.NewRegistry(programID)
	require.NoError(t, err)

	h := &harness{
		t:         t,
		ledger:    l,
		reg:       reg,
		authority: solana.NewWallet().PublicKey(),
		collector: solana.NewWallet().PublicKey(),
		feeMint:   solana.NewWallet().PublicKey(),
	}
	require.NoError(t, l.Airdrop(h.authority, lamports))
	require.NoError(t, l.CreateMint(h.feeMint, 6, h.authority))
	return h
}

// newInitializedHarness returns a registry charging feeAmount per entry.
func newInitializedHarness(t *testing.T, feeAmount uint64) *harness {
	h := newHarness(t)
	ix, err := h.reg.InitializeRegistry(h.authority, h.feeMint, h.collector, feeAmount)
	require.NoError(t, err)
	require.NoError(t, h.exec(ix))
	return h
}

func (h *harness) exec(ix solana.Instruction) error {
	_, err := h.ledger.Execute(context.Background(), ix)
	return err
}

func (h *harness) newMint() solana.PublicKey {
	mint := solana.NewWallet().PublicKey()
	require.NoError(h.t, h.ledger.CreateMint(mint, 9, solana.NewWallet().PublicKey()))
	return mint
}

// newUser returns a funded wallet holding feeTokens of the fee mint.
func (h *harness) newUser(feeTokens uint64) solana.PublicKey {
	user := solana.NewWallet().PublicKey()
	require.NoError(h.t, h.ledger.Airdrop(user, lamports))
	if feeTokens > 0 {
		_, err := h.ledger.MintTo(h.feeMint, user, feeTokens)
		require.NoError(h.t, err)
	}
	return user
}

func (h *harness) meta() schema.RegistryMeta {
	acc, err := h.ledger.GetAccount(h.reg.Meta)
	require.NoError(h.t, err)
	meta, err := codec.DecodeMeta(acc.Data)
	require.NoError(h.t, err)
	return meta
}

func (h *harness) node(addr solana.PublicKey) schema.RegistryNode {
	acc, err := h.ledger.GetAccount(addr)
	require.NoError(h.t, err)
	node, err := codec.ReadNodeSlot(acc.Data)
	require.NoError(h.t, err)
	return node
}

func (h *harness) entry(mint solana.PublicKey) schema.RegistryNode {
	addr, err := h.reg.NodeAddress(mint)
	require.NoError(h.t, err)
	return h.node(addr)
}

func (h *harness) first() solana.PublicKey {
	return h.node(h.reg.Head).NextRegistryNode
}

// chain walks next from the head sentinel and returns every node between the
// sentinels, checking the back links on the way.
func (h *harness) chain() []solana.PublicKey {
	var keys []solana.PublicKey
	prev := h.reg.Head
	cur := h.first()
	for !cur.Equals(h.reg.Tail) {
		node := h.node(cur)
		require.Equal(h.t, prev, node.PrevRegistryNode)
		keys = append(keys, cur)
		prev, cur = cur, node.NextRegistryNode
	}
	require.Equal(h.t, prev, h.node(h.reg.Tail).PrevRegistryNode)
	return keys
}

func (h *harness) live() int {
	n := 0
	for _, key := range h.chain() {
		if !h.node(key).Deleted {
			n++
		}
	}
	return n
}

func (h *harness) feeBalance(wallet solana.PublicKey) uint64 {
	ata, _, err := solana.FindAssociatedTokenAddress(wallet, h.feeMint)
	require.NoError(h.t, err)
	acc, err := h.ledger.GetAccount(ata)
	require.NoError(h.t, err)
	if acc.IsEmpty() {
		return 0
	}
	bal, err := h.ledger.TokenBalance(ata)
	require.NoError(h.t, err)
	return bal
}

func (h *harness) createEntry(user, mint solana.PublicKey, args schema.EntryArgs) error {
	meta := h.meta()
	ix, err := h.reg.CreateEntry(user, mint, h.first(), meta.FeeMint, meta.FeeDestination, args)
	require.NoError(h.t, err)
	return h.exec(ix)
}

func testArgs(symbol string) schema.EntryArgs {
	return schema.EntryArgs{
		Symbol:     symbol,
		Name:       symbol + " token",
		LogoUrl:    fmt.Sprintf("https://%s/logo.png", symbol),
		Tags:       []string{"test"},
		Extensions: []schema.Extension{{Key: "website", Value: "https://" + symbol}},
	}
}

func TestInitializeRegistry(t *testing.T) {
	h := newInitializedHarness(t, 1000)

	meta := h.meta()
	assert.True(t, meta.Initialized)
	assert.Equal(t, uint64(1000), meta.FeeAmount)
	assert.Equal(t, h.feeMint, meta.FeeMint)
	assert.Equal(t, h.collector, meta.FeeDestination)
	assert.Equal(t, h.authority, meta.FeeUpdateAuthority)
	assert.Equal(t, h.reg.Head, meta.HeadRegistryNode)

	assert.Equal(t, h.reg.Tail, h.node(h.reg.Head).NextRegistryNode)
	assert.Equal(t, h.reg.Head, h.node(h.reg.Tail).PrevRegistryNode)
	assert.Empty(t, h.chain())

	for _, addr := range []solana.PublicKey{h.reg.Head, h.reg.Tail} {
		acc, err := h.ledger.GetAccount(addr)
		require.NoError(t, err)
		assert.Equal(t, h.reg.ProgramID, acc.Owner)
		assert.Equal(t, codec.NodeSlotSpace(), len(acc.Data))
		assert.Equal(t, ledger.MinimumBalance(uint64(codec.NodeSlotSpace())), acc.Lamports)
	}
	acc, err := h.ledger.GetAccount(h.reg.Meta)
	require.NoError(t, err)
	assert.Equal(t, codec.MetaSpace, len(acc.Data))

	// the collector's fee account is provisioned
	collectorAta, _, err := solana.FindAssociatedTokenAddress(h.collector, h.feeMint)
	require.NoError(t, err)
	acc, err = h.ledger.GetAccount(collectorAta)
	require.NoError(t, err)
	assert.Equal(t, solana.TokenProgramID, acc.Owner)

	ix, err := h.reg.InitializeRegistry(h.authority, h.feeMint, h.collector, 5)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrAlreadyInitialized)
	assert.Equal(t, uint64(1000), h.meta().FeeAmount)
}

func TestInitializeValidation(t *testing.T) {
	h := newHarness(t)
	build := func() *solana.GenericInstruction {
		ix, err := h.reg.InitializeRegistry(h.authority, h.feeMint, h.collector, 10)
		require.NoError(t, err)
		return ix
	}

	ix := build()
	ix.AccountValues = ix.AccountValues[:10]
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidNumberOfAccounts)

	cases := []struct {
		index int
		meta  *solana.AccountMeta
		err   error
	}{
		{0, solana.Meta(h.authority).WRITE(), schema.ErrInvalidUserAccount},
		{1, solana.Meta(solana.NewWallet().PublicKey()), schema.ErrInvalidMint},
		{3, solana.Meta(solana.NewWallet().PublicKey()).WRITE(), schema.ErrInvalidAssociatedTokenAccount},
		{4, solana.Meta(solana.NewWallet().PublicKey()), schema.ErrInvalidSystemProgram},
		{5, solana.Meta(solana.NewWallet().PublicKey()), schema.ErrInvalidTokenProgram},
		{6, solana.Meta(solana.NewWallet().PublicKey()), schema.ErrInvalidATAProgram},
		{7, solana.Meta(solana.NewWallet().PublicKey()), schema.ErrInvalidSysvarRentProgram},
		{8, solana.Meta(h.reg.Head).WRITE(), schema.ErrInvalidProgramDerivedAccount},
		{10, solana.Meta(solana.NewWallet().PublicKey()).WRITE(), schema.ErrInvalidProgramDerivedAccount},
	}
	for _, c := range cases {
		ix := build()
		ix.AccountValues[c.index] = c.meta
		assert.ErrorIs(t, h.exec(ix), c.err, "account %d", c.index)
	}

	// nothing was written by the failed attempts
	acc, err := h.ledger.GetAccount(h.reg.Meta)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())

	require.NoError(t, h.exec(build()))
}

func TestNotYetInitialized(t *testing.T) {
	h := newHarness(t)
	user := h.newUser(0)
	ix, err := h.reg.CreateEntry(user, h.newMint(), h.reg.Tail, h.feeMint, h.collector, testArgs("AAA"))
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrNotYetInitialized)

	ix, err = h.reg.UpdateFees(h.authority, h.feeMint, h.collector, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrNotYetInitialized)
}

func TestCreateEntryScenario(t *testing.T) {
	h := newInitializedHarness(t, 1000)
	payer := h.newUser(5000)
	mint := h.newMint()

	args := schema.EntryArgs{
		Symbol:     "USDX",
		Name:       "US Dollar X",
		LogoUrl:    "https://x/logo.png",
		Tags:       []string{"stablecoin"},
		Extensions: []schema.Extension{{Key: "website", Value: "https://x"}},
	}
	require.NoError(t, h.createEntry(payer, mint, args))

	addr, err := h.reg.NodeAddress(mint)
	require.NoError(t, err)
	assert.Equal(t, uint64(4000), h.feeBalance(payer))
	assert.Equal(t, uint64(1000), h.feeBalance(h.collector))
	assert.Equal(t, addr, h.first())
	assert.Equal(t, addr, h.meta().HeadRegistryNode)

	node := h.entry(mint)
	assert.False(t, node.Deleted)
	assert.Equal(t, mint, node.TokenMint)
	assert.Equal(t, payer, node.TokenUpdateAuthority)
	assert.Equal(t, args, node.Args())
	assert.Equal(t, h.reg.Head, node.PrevRegistryNode)
	assert.Equal(t, h.reg.Tail, node.NextRegistryNode)
	assert.Equal(t, []solana.PublicKey{addr}, h.chain())

	acc, err := h.ledger.GetAccount(addr)
	require.NoError(t, err)
	assert.Equal(t, codec.NodeSlotSpace(), len(acc.Data))
}

func TestCreateEntryInsertsAtHead(t *testing.T) {
	h := newInitializedHarness(t, 10)
	user := h.newUser(100)

	var want []solana.PublicKey
	for i := 0; i < 4; i++ {
		mint := h.newMint()
		require.NoError(t, h.createEntry(user, mint, testArgs(fmt.Sprintf("T%d", i))))
		addr, err := h.reg.NodeAddress(mint)
		require.NoError(t, err)
		want = append([]solana.PublicKey{addr}, want...)
	}
	assert.Equal(t, want, h.chain())
	assert.Equal(t, uint64(60), h.feeBalance(user))
	assert.Equal(t, uint64(40), h.feeBalance(h.collector))
}

func TestCreateEntryTwice(t *testing.T) {
	h := newInitializedHarness(t, 10)
	user := h.newUser(100)
	mint := h.newMint()
	require.NoError(t, h.createEntry(user, mint, testArgs("AAA")))
	before := h.entry(mint)

	other := h.newUser(100)
	assert.ErrorIs(t, h.createEntry(other, mint, testArgs("BBB")), schema.ErrPreviouslyRegisteredMint)
	assert.ErrorIs(t, h.createEntry(user, mint, testArgs("AAA")), schema.ErrPreviouslyRegisteredMint)
	assert.Equal(t, before, h.entry(mint))
	assert.Equal(t, uint64(90), h.feeBalance(user))
	assert.Equal(t, uint64(100), h.feeBalance(other))
}

func TestCreateEntryFeeExemption(t *testing.T) {
	h := newInitializedHarness(t, 1000)
	require.NoError(t, h.createEntry(h.authority, h.newMint(), testArgs("FREE")))
	assert.Equal(t, uint64(0), h.feeBalance(h.collector))
	assert.Equal(t, 1, h.live())
}

func TestCreateEntryZeroFee(t *testing.T) {
	h := newInitializedHarness(t, 0)
	user := h.newUser(0)
	mint := h.newMint()
	build := func() *solana.GenericInstruction {
		ix, err := h.reg.CreateEntry(user, mint, h.first(), h.feeMint, h.collector, testArgs("ZERO"))
		require.NoError(t, err)
		return ix
	}
	wrongSource, _, err := solana.FindAssociatedTokenAddress(h.collector, h.feeMint)
	require.NoError(t, err)
	wrongCollectorAta, _, err := solana.FindAssociatedTokenAddress(user, h.feeMint)
	require.NoError(t, err)

	// the fee accounts are still verified when there is nothing to pay
	cases := []struct {
		index int
		meta  *solana.AccountMeta
		err   error
	}{
		{2, solana.Meta(wrongSource).WRITE(), schema.ErrInvalidAssociatedTokenAccount},
		{3, solana.Meta(wrongCollectorAta).WRITE(), schema.ErrInvalidAssociatedTokenAccount},
		{4, solana.Meta(solana.NewWallet().PublicKey()), schema.ErrInvalidSystemAccount},
		{5, solana.Meta(h.newMint()), schema.ErrInvalidMint},
	}
	for _, c := range cases {
		ix := build()
		ix.AccountValues[c.index] = c.meta
		assert.ErrorIs(t, h.exec(ix), c.err, "account %d", c.index)
	}
	assert.Empty(t, h.chain())

	// neither fee token account needs to exist
	require.NoError(t, h.exec(build()))
	assert.Equal(t, 1, h.live())
	source, _, err := solana.FindAssociatedTokenAddress(user, h.feeMint)
	require.NoError(t, err)
	acc, err := h.ledger.GetAccount(source)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())
}

func TestCreateEntryInsufficientFee(t *testing.T) {
	h := newInitializedHarness(t, 1000)
	user := h.newUser(999)
	mint := h.newMint()
	headBefore := h.node(h.reg.Head)

	assert.ErrorIs(t, h.createEntry(user, mint, testArgs("POOR")), ledger.ErrInsufficientFunds)

	addr, err := h.reg.NodeAddress(mint)
	require.NoError(t, err)
	acc, err := h.ledger.GetAccount(addr)
	require.NoError(t, err)
	assert.True(t, acc.IsEmpty())
	assert.Equal(t, uint64(0), acc.Lamports)
	assert.Equal(t, headBefore, h.node(h.reg.Head))
	assert.Equal(t, h.reg.Head, h.meta().HeadRegistryNode)
	assert.Equal(t, uint64(999), h.feeBalance(user))

	// no fee account at all
	broke := h.newUser(0)
	assert.ErrorIs(t, h.createEntry(broke, mint, testArgs("POOR")), schema.ErrUninitializedAssociatedTokenAccount)
}

func TestCreateEntryValidation(t *testing.T) {
	h := newInitializedHarness(t, 10)
	user := h.newUser(100)
	first := h.newMint()
	require.NoError(t, h.createEntry(user, first, testArgs("ONE")))
	mint := h.newMint()
	build := func() *solana.GenericInstruction {
		ix, err := h.reg.CreateEntry(user, mint, h.first(), h.feeMint, h.collector, testArgs("TWO"))
		require.NoError(t, err)
		return ix
	}

	otherMint := h.newMint()
	otherNode, err := h.reg.NodeAddress(otherMint)
	require.NoError(t, err)
	wrongSource, _, err := solana.FindAssociatedTokenAddress(h.collector, h.feeMint)
	require.NoError(t, err)

	cases := []struct {
		index int
		meta  *solana.AccountMeta
		err   error
	}{
		{0, solana.Meta(user).WRITE(), schema.ErrInvalidUserAccount},
		{1, solana.Meta(solana.NewWallet().PublicKey()), schema.ErrInvalidMint},
		{2, solana.Meta(wrongSource).WRITE(), schema.ErrInvalidAssociatedTokenAccount},
		{4, solana.Meta(solana.NewWallet().PublicKey()), schema.ErrInvalidSystemAccount},
		{5, solana.Meta(otherMint), schema.ErrInvalidMint},
		{8, solana.Meta(solana.SystemProgramID), schema.ErrInvalidATAProgram},
		{11, solana.Meta(h.reg.Tail).WRITE(), schema.ErrInvalidProgramDerivedAccount},
		{12, solana.Meta(h.reg.Tail).WRITE(), schema.ErrInvalidRegistryNodeFirst},
		{13, solana.Meta(otherNode).WRITE(), schema.ErrInvalidProgramDerivedAccount},
	}
	for _, c := range cases {
		ix := build()
		ix.AccountValues[c.index] = c.meta
		assert.ErrorIs(t, h.exec(ix), c.err, "account %d", c.index)
	}

	ix := build()
	ix.AccountValues = append(ix.AccountValues, solana.Meta(h.reg.Tail))
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidNumberOfAccounts)

	ix = build()
	ix.DataBytes = []byte{byte(program.OpCreateEntry), 1, 2}
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidInstructionData)

	require.NoError(t, h.exec(build()))
	assert.Equal(t, 2, h.live())
}

func TestCreateEntryTooLarge(t *testing.T) {
	h := newInitializedHarness(t, 0)
	args := testArgs("BIG")
	args.LogoUrl = string(make([]byte, codec.NodeSlotSpace()))
	assert.ErrorIs(t, h.createEntry(h.authority, h.newMint(), args), schema.ErrCodecTooLarge)
	assert.Empty(t, h.chain())

	// fields past their nominal limit are accepted while the record fits
	mint := h.newMint()
	require.NoError(t, h.createEntry(h.authority, mint, testArgs("AAA")))
	args = testArgs("AAA")
	args.Tags = []string{"a", "b", "c", "d"}
	ix, err := h.reg.UpdateEntry(h.authority, mint, args)
	require.NoError(t, err)
	require.NoError(t, h.exec(ix))
	assert.Equal(t, args.Tags, h.entry(mint).TokenTags)
}

func TestDeleteAndRevive(t *testing.T) {
	h := newInitializedHarness(t, 10)
	alice := h.newUser(100)
	bob := h.newUser(100)
	mintA, mintB, mintC := h.newMint(), h.newMint(), h.newMint()
	require.NoError(t, h.createEntry(alice, mintA, testArgs("AAA")))
	require.NoError(t, h.createEntry(bob, mintB, testArgs("BBB")))
	require.NoError(t, h.createEntry(alice, mintC, testArgs("CCC")))
	chain := h.chain()
	require.Len(t, chain, 3)
	nodeB := h.entry(mintB)

	del, err := h.reg.DeleteEntry(alice, mintA)
	require.NoError(t, err)
	require.NoError(t, h.exec(del))
	assert.True(t, h.entry(mintA).Deleted)
	assert.Equal(t, chain, h.chain())
	assert.Equal(t, 2, h.live())

	assert.ErrorIs(t, h.exec(del), schema.ErrPreviouslyDeletedMint)
	upd, err := h.reg.UpdateEntry(alice, mintA, testArgs("ZZZ"))
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(upd), schema.ErrPreviouslyDeletedMint)

	// bob revives A: same slot, same position, new authority, fee charged
	addrA, err := h.reg.NodeAddress(mintA)
	require.NoError(t, err)
	require.NoError(t, h.createEntry(bob, mintA, testArgs("AA2")))
	revived := h.entry(mintA)
	assert.False(t, revived.Deleted)
	assert.Equal(t, bob, revived.TokenUpdateAuthority)
	assert.Equal(t, "AA2", revived.TokenSymbol)
	assert.Equal(t, chain, h.chain())
	assert.Equal(t, addrA, chain[2])
	assert.Equal(t, 3, h.live())
	assert.Equal(t, nodeB, h.entry(mintB))
	assert.Equal(t, uint64(80), h.feeBalance(bob))

	acc, err := h.ledger.GetAccount(addrA)
	require.NoError(t, err)
	assert.Equal(t, ledger.MinimumBalance(uint64(codec.NodeSlotSpace())), acc.Lamports)
}

func TestEntryAuthorityGate(t *testing.T) {
	h := newInitializedHarness(t, 0)
	owner := h.newUser(0)
	intruder := h.newUser(0)
	mint := h.newMint()
	require.NoError(t, h.createEntry(owner, mint, testArgs("AAA")))
	before := h.entry(mint)

	del, err := h.reg.DeleteEntry(intruder, mint)
	require.NoError(t, err)
	upd, err := h.reg.UpdateEntry(intruder, mint, testArgs("EVIL"))
	require.NoError(t, err)
	xfer, err := h.reg.TransferTokenAuthority(intruder, intruder, mint)
	require.NoError(t, err)
	for _, ix := range []solana.Instruction{del, upd, xfer} {
		assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidTokenUpdateAuthority)
	}
	assert.Equal(t, before, h.entry(mint))

	// the fee authority has no say over entries either
	del, err = h.reg.DeleteEntry(h.authority, mint)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(del), schema.ErrInvalidTokenUpdateAuthority)

	// unsigned
	del, err = h.reg.DeleteEntry(owner, mint)
	require.NoError(t, err)
	del.AccountValues[0] = solana.Meta(owner)
	assert.ErrorIs(t, h.exec(del), schema.ErrInvalidUserAccount)

	// never registered
	del, err = h.reg.DeleteEntry(owner, h.newMint())
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(del), schema.ErrInvalidMint)
}

func TestUpdateEntry(t *testing.T) {
	h := newInitializedHarness(t, 0)
	owner := h.newUser(0)
	mint := h.newMint()
	require.NoError(t, h.createEntry(owner, mint, testArgs("AAA")))
	before := h.entry(mint)

	args := schema.EntryArgs{Symbol: "NEW", Name: "renamed"}
	ix, err := h.reg.UpdateEntry(owner, mint, args)
	require.NoError(t, err)
	require.NoError(t, h.exec(ix))

	after := h.entry(mint)
	assert.Equal(t, args, after.Args())
	assert.Equal(t, before.NextRegistryNode, after.NextRegistryNode)
	assert.Equal(t, before.PrevRegistryNode, after.PrevRegistryNode)
	assert.Equal(t, before.TokenMint, after.TokenMint)
	assert.Equal(t, before.TokenUpdateAuthority, after.TokenUpdateAuthority)
	assert.False(t, after.Deleted)
}

func TestTransferTokenAuthority(t *testing.T) {
	h := newInitializedHarness(t, 0)
	owner := h.newUser(0)
	heir := h.newUser(0)
	mint := h.newMint()
	require.NoError(t, h.createEntry(owner, mint, testArgs("AAA")))

	// the new authority must be a system account
	ix, err := h.reg.TransferTokenAuthority(owner, mint, mint)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidSystemAccount)

	ix, err = h.reg.TransferTokenAuthority(owner, heir, mint)
	require.NoError(t, err)
	require.NoError(t, h.exec(ix))
	assert.Equal(t, heir, h.entry(mint).TokenUpdateAuthority)

	upd, err := h.reg.UpdateEntry(owner, mint, testArgs("OLD"))
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(upd), schema.ErrInvalidTokenUpdateAuthority)

	upd, err = h.reg.UpdateEntry(heir, mint, testArgs("NEW"))
	require.NoError(t, err)
	require.NoError(t, h.exec(upd))
	assert.Equal(t, "NEW", h.entry(mint).TokenSymbol)
}

func TestUpdateFees(t *testing.T) {
	h := newInitializedHarness(t, 10)
	stranger := h.newUser(0)
	newMint := h.newMint()
	newCollector := solana.NewWallet().PublicKey()

	ix, err := h.reg.UpdateFees(stranger, newMint, newCollector, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidFeeUpdateAuthority)

	ix, err = h.reg.UpdateFees(h.authority, solana.NewWallet().PublicKey(), newCollector, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidMint)

	ix, err = h.reg.UpdateFees(h.authority, newMint, newMint, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidSystemAccount)
	assert.Equal(t, uint64(10), h.meta().FeeAmount)

	ix, err = h.reg.UpdateFees(h.authority, newMint, newCollector, 77)
	require.NoError(t, err)
	require.NoError(t, h.exec(ix))
	meta := h.meta()
	assert.Equal(t, uint64(77), meta.FeeAmount)
	assert.Equal(t, newMint, meta.FeeMint)
	assert.Equal(t, newCollector, meta.FeeDestination)
	assert.Equal(t, h.authority, meta.FeeUpdateAuthority)

	// entries are now paid in the new mint to the new collector, whose fee
	// account is created on first payment
	payer := h.newUser(0)
	_, err = h.ledger.MintTo(newMint, payer, 100)
	require.NoError(t, err)
	require.NoError(t, h.createEntry(payer, h.newMint(), testArgs("AAA")))
	collectorAta, _, err := solana.FindAssociatedTokenAddress(newCollector, newMint)
	require.NoError(t, err)
	bal, err := h.ledger.TokenBalance(collectorAta)
	require.NoError(t, err)
	assert.Equal(t, uint64(77), bal)
}

func TestTransferFeeAuthority(t *testing.T) {
	h := newInitializedHarness(t, 10)
	heir := h.newUser(0)

	ix, err := h.reg.TransferFeeAuthority(heir, heir)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidFeeUpdateAuthority)

	ix, err = h.reg.TransferFeeAuthority(h.authority, heir)
	require.NoError(t, err)
	require.NoError(t, h.exec(ix))
	assert.Equal(t, heir, h.meta().FeeUpdateAuthority)

	// the exemption follows the authority
	require.NoError(t, h.createEntry(heir, h.newMint(), testArgs("FREE")))
	assert.Equal(t, uint64(0), h.feeBalance(h.collector))

	ix, err = h.reg.UpdateFees(h.authority, h.feeMint, h.collector, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(ix), schema.ErrInvalidFeeUpdateAuthority)
}

func TestAuthorityCheckedBeforeAccounts(t *testing.T) {
	h := newInitializedHarness(t, 10)
	owner := h.newUser(10)
	stranger := h.newUser(0)
	mint := h.newMint()
	require.NoError(t, h.createEntry(owner, mint, testArgs("AAA")))
	before, meta := h.entry(mint), h.meta()

	// a mint is not a system account, and a wallet is not a mint
	xfer, err := h.reg.TransferTokenAuthority(stranger, mint, mint)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(xfer), schema.ErrInvalidTokenUpdateAuthority)

	feeXfer, err := h.reg.TransferFeeAuthority(stranger, mint)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(feeXfer), schema.ErrInvalidFeeUpdateAuthority)

	upd, err := h.reg.UpdateFees(stranger, mint, mint, 5)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(upd), schema.ErrInvalidFeeUpdateAuthority)
	upd, err = h.reg.UpdateFees(stranger, solana.NewWallet().PublicKey(), h.collector, 5)
	require.NoError(t, err)
	assert.ErrorIs(t, h.exec(upd), schema.ErrInvalidFeeUpdateAuthority)

	assert.Equal(t, before, h.entry(mint))
	assert.Equal(t, meta, h.meta())
}

func TestReviveKeepsChain(t *testing.T) {
	h := newInitializedHarness(t, 0)
	owner := h.newUser(0)
	a, b := h.newMint(), h.newMint()
	require.NoError(t, h.createEntry(owner, a, testArgs("AAA")))
	require.NoError(t, h.createEntry(owner, b, testArgs("BBB")))
	del, err := h.reg.DeleteEntry(owner, a)
	require.NoError(t, err)
	require.NoError(t, h.exec(del))
	chain := h.chain()

	// any first node will do, nothing is relinked
	ix, err := h.reg.CreateEntry(owner, a, solana.NewWallet().PublicKey(), h.feeMint, h.collector, testArgs("AGAIN"))
	require.NoError(t, err)
	require.NoError(t, h.exec(ix))
	assert.Equal(t, chain, h.chain())
	assert.Equal(t, 2, h.live())
	assert.Equal(t, "AGAIN", h.entry(a).TokenSymbol)
}
