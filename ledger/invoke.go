package ledger

import (
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
)

// Invoker is what a program may ask of the host while it runs: account
// creation and funding, associated token account provisioning, and token
// transfers. Effects land on the passed AccountInfos and are committed or
// discarded together with the calling instruction.
type Invoker interface {
	MinimumBalance(space uint64) uint64

	// CreateAccount allocates space bytes for target, funds it at the rent
	// exempt minimum from payer and assigns it to owner. signerSeeds, when
	// given, sign for a target derived from the calling program.
	CreateAccount(payer, target *AccountInfo, space uint64, owner solana.PublicKey, signerSeeds [][]byte) error

	CreateAssociatedTokenAccount(payer, ata, wallet, mint *AccountInfo) error

	TransferTokens(source, destination, authority *AccountInfo, amount uint64) error
}

// invoker binds the host collaborators to the program currently executing.
type invoker struct {
	caller solana.PublicKey
}

func (i *invoker) MinimumBalance(space uint64) uint64 {
	return MinimumBalance(space)
}

func (i *invoker) CreateAccount(payer, target *AccountInfo, space uint64, owner solana.PublicKey, signerSeeds [][]byte) error {
	if !payer.IsSigner {
		return ErrMissingSignature
	}
	if !target.IsSigner {
		if signerSeeds == nil {
			return ErrMissingSignature
		}
		addr, err := solana.CreateProgramAddress(signerSeeds, i.caller)
		if err != nil || !addr.Equals(target.Key) {
			return ErrInvalidSeeds
		}
	}
	if !target.IsEmpty() || target.Lamports != 0 || !target.Owner.Equals(solana.SystemProgramID) {
		return ErrAccountInUse
	}
	return allocate(payer, target, space, owner)
}

func allocate(payer, target *AccountInfo, space uint64, owner solana.PublicKey) error {
	rent := MinimumBalance(space)
	if payer.Lamports < rent {
		return ErrInsufficientLamports
	}
	payer.Lamports -= rent
	target.Lamports += rent
	target.Data = make([]byte, space)
	target.Owner = owner
	return nil
}

func (i *invoker) CreateAssociatedTokenAccount(payer, ata, wallet, mint *AccountInfo) error {
	if !payer.IsSigner {
		return ErrMissingSignature
	}
	expected, _, err := solana.FindAssociatedTokenAddress(wallet.Key, mint.Key)
	if err != nil || !expected.Equals(ata.Key) {
		return ErrInvalidSeeds
	}
	if !mint.Owner.Equals(solana.TokenProgramID) {
		return ErrInvalidTokenAccount
	}
	if !ata.IsEmpty() || !ata.Owner.Equals(solana.SystemProgramID) {
		return ErrAccountInUse
	}
	data, err := EncodeTokenAccount(token.Account{
		Mint:  mint.Key,
		Owner: wallet.Key,
		State: token.Initialized,
	})
	if err != nil {
		return err
	}
	if err = allocate(payer, ata, TokenAccountSize, solana.TokenProgramID); err != nil {
		return err
	}
	ata.Data = data
	return nil
}

func (i *invoker) TransferTokens(source, destination, authority *AccountInfo, amount uint64) error {
	if !source.Owner.Equals(solana.TokenProgramID) || !destination.Owner.Equals(solana.TokenProgramID) {
		return ErrInvalidTokenAccount
	}
	src, err := DecodeTokenAccount(source.Data)
	if err != nil {
		return err
	}
	dst, err := DecodeTokenAccount(destination.Data)
	if err != nil {
		return err
	}
	if src.State != token.Initialized || dst.State != token.Initialized {
		return ErrInvalidTokenAccount
	}
	if !src.Mint.Equals(dst.Mint) {
		return ErrMintMismatch
	}
	if !src.Owner.Equals(authority.Key) {
		return ErrOwnerMismatch
	}
	if !authority.IsSigner {
		return ErrMissingSignature
	}
	if src.Amount < amount {
		return ErrInsufficientFunds
	}
	if source.Key.Equals(destination.Key) {
		return nil
	}
	src.Amount -= amount
	dst.Amount += amount
	if source.Data, err = EncodeTokenAccount(src); err != nil {
		return err
	}
	destination.Data, err = EncodeTokenAccount(dst)
	return err
}
