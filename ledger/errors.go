package ledger

import "errors"

var (
	ErrUnknownProgram       = errors.New("unknown_program")
	ErrReadonlyModified     = errors.New("readonly_account_modified")
	ErrMissingSignature     = errors.New("missing_required_signature")
	ErrAccountInUse         = errors.New("account_already_in_use")
	ErrInsufficientLamports = errors.New("insufficient_lamports")
	ErrInsufficientFunds    = errors.New("insufficient_token_funds")
	ErrInvalidTokenAccount  = errors.New("invalid_token_account")
	ErrMintMismatch         = errors.New("token_mint_mismatch")
	ErrOwnerMismatch        = errors.New("token_owner_mismatch")
	ErrInvalidSeeds         = errors.New("invalid_seeds")
	ErrEmptyTransaction     = errors.New("empty_transaction")
)
