package ledger

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go/programs/token"
)

// SPL layout sizes.
const (
	TokenAccountSize = 165
	MintSize         = 82
)

func DecodeTokenAccount(data []byte) (acct token.Account, err error) {
	if len(data) < TokenAccountSize {
		return acct, ErrInvalidTokenAccount
	}
	if err = bin.NewBinDecoder(data).Decode(&acct); err != nil {
		return acct, ErrInvalidTokenAccount
	}
	return acct, nil
}

func EncodeTokenAccount(acct token.Account) ([]byte, error) {
	return encodeFixed(acct, TokenAccountSize)
}

func DecodeMint(data []byte) (mint token.Mint, err error) {
	if len(data) < MintSize {
		return mint, ErrInvalidTokenAccount
	}
	if err = bin.NewBinDecoder(data).Decode(&mint); err != nil {
		return mint, ErrInvalidTokenAccount
	}
	return mint, nil
}

func EncodeMint(mint token.Mint) ([]byte, error) {
	return encodeFixed(mint, MintSize)
}

// encodeFixed pads the encoding to the fixed SPL account size.
func encodeFixed(v interface{}, size int) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := bin.NewBinEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	if buf.Len() > size {
		return nil, ErrInvalidTokenAccount
	}
	out := make([]byte, size)
	copy(out, buf.Bytes())
	return out, nil
}
