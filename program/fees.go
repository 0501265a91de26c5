package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/ledger"
	"github.com/everFinance/tokenregistry/schema"
)

func (p *Processor) updateFees(programID solana.PublicKey, accounts []*ledger.AccountInfo, feeAmount uint64) error {
	user, feeMint, collector, meta := accounts[0], accounts[1], accounts[2], accounts[3]
	if !user.IsSigner {
		return schema.ErrInvalidUserAccount
	}
	record, err := isInitialized(programID, meta)
	if err != nil {
		return err
	}
	if err = authorityMatches(record.FeeUpdateAuthority, user.Key, schema.ErrInvalidFeeUpdateAuthority); err != nil {
		return err
	}
	if err = isAssetIdentity(feeMint); err != nil {
		return err
	}
	if err = isSystemAccount(collector); err != nil {
		return err
	}
	record, err = updateFees(record, user.Key, feeAmount, feeMint.Key, collector.Key)
	if err != nil {
		return err
	}
	return writeMeta(meta, record)
}

func (p *Processor) transferFeeAuthority(programID solana.PublicKey, accounts []*ledger.AccountInfo) error {
	user, newAuthority, meta := accounts[0], accounts[1], accounts[2]
	if !user.IsSigner {
		return schema.ErrInvalidUserAccount
	}
	record, err := isInitialized(programID, meta)
	if err != nil {
		return err
	}
	if err = authorityMatches(record.FeeUpdateAuthority, user.Key, schema.ErrInvalidFeeUpdateAuthority); err != nil {
		return err
	}
	if err = isSystemAccount(newAuthority); err != nil {
		return err
	}
	record, err = transferFeeAuthority(record, user.Key, newAuthority.Key)
	if err != nil {
		return err
	}
	return writeMeta(meta, record)
}

// feeAccounts are the CreateEntry accounts taking part in fee collection.
type feeAccounts struct {
	payer        *ledger.AccountInfo
	source       *ledger.AccountInfo
	collectorAta *ledger.AccountInfo
	collector    *ledger.AccountInfo
	feeMint      *ledger.AccountInfo
}

// collectFee verifies the fee accounts against meta and moves meta.FeeAmount
// of the fee mint from the payer's associated token account to the
// collector's, provisioning the latter when empty.
func collectFee(meta schema.RegistryMeta, accs feeAccounts, invoker ledger.Invoker) error {
	if !accs.feeMint.Key.Equals(meta.FeeMint) {
		return schema.ErrInvalidMint
	}
	if err := isAssetIdentity(accs.feeMint); err != nil {
		return err
	}
	if !accs.collector.Key.Equals(meta.FeeDestination) {
		return schema.ErrInvalidSystemAccount
	}
	if err := isAssociatedTokenAccount(accs.source, accs.payer.Key, meta.FeeMint); err != nil {
		return err
	}
	if err := isAssociatedTokenAccount(accs.collectorAta, meta.FeeDestination, meta.FeeMint); err != nil {
		return err
	}
	// a zero fee moves nothing, so neither token account has to exist yet
	if meta.FeeAmount == 0 {
		return nil
	}
	if accs.source.IsEmpty() {
		return schema.ErrUninitializedAssociatedTokenAccount
	}
	if accs.collectorAta.IsEmpty() {
		if err := invoker.CreateAssociatedTokenAccount(accs.payer, accs.collectorAta, accs.collector, accs.feeMint); err != nil {
			return err
		}
	}
	return invoker.TransferTokens(accs.source, accs.collectorAta, accs.payer, meta.FeeAmount)
}
