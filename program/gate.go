package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/ledger"
	"github.com/everFinance/tokenregistry/pda"
	"github.com/everFinance/tokenregistry/schema"
)

// Gate predicates run before a transition touches any slot. They only read
// what they are given.

func accountCountMatches(accounts []*ledger.AccountInfo, n int) error {
	if len(accounts) != n {
		return schema.ErrInvalidNumberOfAccounts
	}
	return nil
}

func isSignerAndExternallyOwned(acc *ledger.AccountInfo) error {
	if !acc.IsSigner {
		return schema.ErrInvalidUserAccount
	}
	return isSystemAccount(acc)
}

func isSystemAccount(acc *ledger.AccountInfo) error {
	if !acc.Owner.Equals(solana.SystemProgramID) {
		return schema.ErrInvalidSystemAccount
	}
	return nil
}

func isAssetIdentity(acc *ledger.AccountInfo) error {
	if !acc.Owner.Equals(solana.TokenProgramID) {
		return schema.ErrInvalidMint
	}
	if acc.IsEmpty() {
		return schema.ErrUninitializedMint
	}
	mint, err := ledger.DecodeMint(acc.Data)
	if err != nil || !mint.IsInitialized {
		return schema.ErrUninitializedMint
	}
	return nil
}

func matchesDerivation(programID solana.PublicKey, acc *ledger.AccountInfo, seed []byte) (uint8, error) {
	return pda.Match(programID, acc.Key, seed)
}

// isInitialized verifies the meta slot address and returns the decoded record.
func isInitialized(programID solana.PublicKey, meta *ledger.AccountInfo) (schema.RegistryMeta, error) {
	if _, err := matchesDerivation(programID, meta, []byte(schema.MetaSeed)); err != nil {
		return schema.RegistryMeta{}, err
	}
	if meta.IsEmpty() {
		return schema.RegistryMeta{}, schema.ErrNotYetInitialized
	}
	record, err := codec.DecodeMeta(meta.Data)
	if err != nil {
		return record, err
	}
	if !record.Initialized {
		return record, schema.ErrNotYetInitialized
	}
	return record, nil
}

func authorityMatches(expected, signer solana.PublicKey, mismatch error) error {
	if !expected.Equals(signer) {
		return mismatch
	}
	return nil
}

func isProgram(acc *ledger.AccountInfo, id solana.PublicKey, mismatch error) error {
	if !acc.Key.Equals(id) {
		return mismatch
	}
	return nil
}

// hostPrograms checks the system, token, associated token and rent accounts
// passed in that order.
func hostPrograms(accounts []*ledger.AccountInfo) error {
	checks := []struct {
		id  solana.PublicKey
		err error
	}{
		{solana.SystemProgramID, schema.ErrInvalidSystemProgram},
		{solana.TokenProgramID, schema.ErrInvalidTokenProgram},
		{solana.SPLAssociatedTokenAccountProgramID, schema.ErrInvalidATAProgram},
		{solana.SysVarRentPubkey, schema.ErrInvalidSysvarRentProgram},
	}
	for i, c := range checks {
		if err := isProgram(accounts[i], c.id, c.err); err != nil {
			return err
		}
	}
	return nil
}

// isAssociatedTokenAccount checks acc is the associated token account of
// wallet for mint. An empty slot passes; callers decide whether to provision it.
func isAssociatedTokenAccount(acc *ledger.AccountInfo, wallet, mint solana.PublicKey) error {
	expected, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil || !expected.Equals(acc.Key) {
		return schema.ErrInvalidAssociatedTokenAccount
	}
	if acc.IsEmpty() {
		return nil
	}
	if !acc.Owner.Equals(solana.TokenProgramID) {
		return schema.ErrInvalidAssociatedTokenAccount
	}
	return nil
}
