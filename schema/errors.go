package schema

import (
	"errors"
	"fmt"
)

var (
	ErrNotExist     = errors.New("not_exist_record")
	ErrNotImplement = errors.New("method not implement")
	ErrNullData     = errors.New("null_data")
)

// RegistryError is returned by the registry program. Code is stable and is
// what a submitter sees when an instruction aborts.
type RegistryError struct {
	Code uint32
	Name string
	Msg  string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("RegistryError::%s - %s", e.Name, e.Msg)
}

var registryErrors []*RegistryError

func newRegistryError(name, msg string) *RegistryError {
	e := &RegistryError{Code: uint32(len(registryErrors)), Name: name, Msg: msg}
	registryErrors = append(registryErrors, e)
	return e
}

// order matters: codes are assigned by declaration order.
var (
	// protocol state
	ErrNotYetInitialized        = newRegistryError("NotYetInitialized", "The registry has not yet been initialized.")
	ErrAlreadyInitialized       = newRegistryError("AlreadyInitialized", "The registry has already been initialized.")
	ErrPreviouslyRegisteredMint = newRegistryError("PreviouslyRegisteredMint", "The provided mint is already in the registry.")
	ErrPreviouslyDeletedMint    = newRegistryError("PreviouslyDeletedMint", "The provided mint has already been deleted from the registry.")

	// authorization
	ErrInvalidTokenUpdateAuthority = newRegistryError("InvalidTokenUpdateAuthority", "Attempted to update a token without having update authority.")
	ErrInvalidFeeUpdateAuthority   = newRegistryError("InvalidFeeUpdateAuthority", "Attempted to update the fees without having update authority.")
	ErrInvalidUserAccount          = newRegistryError("InvalidUserAccount", "The provided user account is not a signer.")

	// shape / identity
	ErrInvalidNumberOfAccounts             = newRegistryError("InvalidNumberOfAccounts", "The number of provided accounts does not match the instruction.")
	ErrInvalidProgramDerivedAccount        = newRegistryError("InvalidProgramDerivedAccount", "The provided account is not the expected program derived address.")
	ErrInvalidRegistryNodeFirst            = newRegistryError("InvalidRegistryNodeFirst", "The provided first registry node is not the node after the head.")
	ErrInvalidMint                         = newRegistryError("InvalidMint", "The provided mint is not owned by the token program.")
	ErrUninitializedMint                   = newRegistryError("UninitializedMint", "The provided mint has not been initialized.")
	ErrInvalidAssociatedTokenAccount       = newRegistryError("InvalidAssociatedTokenAccount", "The provided token account is not the expected Associated Token Account.")
	ErrUninitializedAssociatedTokenAccount = newRegistryError("UninitializedAssociatedTokenAccount", "The provided Associated Token Account has not been initialized.")
	ErrInvalidSystemAccount                = newRegistryError("InvalidSystemAccount", "The provided account is not owned by the system program.")
	ErrInvalidSystemProgram                = newRegistryError("InvalidSystemProgram", "The provided system program is not the real system program.")
	ErrInvalidTokenProgram                 = newRegistryError("InvalidTokenProgram", "The provided token program is not the real token program.")
	ErrInvalidATAProgram                   = newRegistryError("InvalidATAProgram", "The provided associated token program is not the real associated token program.")
	ErrInvalidSysvarRentProgram            = newRegistryError("InvalidSysvarRentProgram", "The provided rent sysvar is not the real rent sysvar.")

	// encoding
	ErrInvalidInstructionData = newRegistryError("InvalidInstructionData", "The provided instruction data cannot be parsed.")
	ErrCodecTruncated         = newRegistryError("CodecError::Truncated", "The record slot holds fewer bytes than its declared length.")
	ErrCodecMalformed         = newRegistryError("CodecError::Malformed", "A length prefix points past the end of the record.")
	ErrCodecTooLarge          = newRegistryError("CodecError::TooLarge", "The record does not fit in the reserved slot capacity.")
)

// RegistryErrorByCode maps a numeric code back to its error, nil if unknown.
func RegistryErrorByCode(code uint32) *RegistryError {
	if int(code) >= len(registryErrors) {
		return nil
	}
	return registryErrors[code]
}

// AsRegistryError unwraps err into a *RegistryError if it carries one.
func AsRegistryError(err error) (*RegistryError, bool) {
	var re *RegistryError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
