package tokenregistry

import (
	"encoding/base64"
	"encoding/hex"
	"errors"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/schema"
)

var (
	ErrInvalidTransaction  = errors.New("invalid_transaction")
	ErrUnsignedTransaction = errors.New("unsigned_instructions_need_faucet_mode")
)

// signedInstructions decodes a base64 transaction, verifies every required
// signature and expands its compiled instructions. Signer and writable flags
// come from the message header, never from the submitter.
func signedInstructions(encoded string) ([]solana.Instruction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrInvalidTransaction
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return nil, ErrInvalidTransaction
	}
	if err = tx.VerifySignatures(); err != nil {
		return nil, err
	}

	keys := tx.Message.AccountKeys
	header := tx.Message.Header
	signed := int(header.NumRequiredSignatures)
	if signed == 0 || signed > len(keys) {
		return nil, ErrInvalidTransaction
	}
	accountMeta := func(idx uint16) (*solana.AccountMeta, error) {
		i := int(idx)
		if i >= len(keys) {
			return nil, ErrInvalidTransaction
		}
		writable := i < signed-int(header.NumReadonlySignedAccounts) ||
			(i >= signed && i < len(keys)-int(header.NumReadonlyUnsignedAccounts))
		return solana.NewAccountMeta(keys[i], writable, i < signed), nil
	}

	ixs := make([]solana.Instruction, 0, len(tx.Message.Instructions))
	for _, ci := range tx.Message.Instructions {
		if int(ci.ProgramIDIndex) >= len(keys) {
			return nil, ErrInvalidTransaction
		}
		metas := make(solana.AccountMetaSlice, 0, len(ci.Accounts))
		for _, idx := range ci.Accounts {
			meta, err := accountMeta(idx)
			if err != nil {
				return nil, err
			}
			metas = append(metas, meta)
		}
		ixs = append(ixs, solana.NewInstruction(keys[ci.ProgramIDIndex], metas, ci.Data))
	}
	if len(ixs) == 0 {
		return nil, ErrInvalidTransaction
	}
	return ixs, nil
}

// unsignedInstruction trusts the submitted flags and is only served by faucet
// hosts.
func unsignedInstruction(programID solana.PublicKey, req schema.ReqTx) (solana.Instruction, error) {
	data, err := hex.DecodeString(req.Data)
	if err != nil || len(data) == 0 {
		return nil, errors.New("invalid instruction data hex")
	}
	metas := make(solana.AccountMetaSlice, 0, len(req.Accounts))
	for _, acc := range req.Accounts {
		key, err := solana.PublicKeyFromBase58(acc.Pubkey)
		if err != nil {
			return nil, errors.New("invalid account pubkey: " + acc.Pubkey)
		}
		metas = append(metas, solana.NewAccountMeta(key, acc.IsWritable, acc.IsSigner))
	}
	return solana.NewInstruction(programID, metas, data), nil
}
