package program

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"

	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/schema"
)

type Opcode uint8

const (
	OpInitializeRegistry Opcode = iota
	OpUpdateFees
	OpCreateEntry
	OpDeleteEntry
	OpUpdateEntry
	OpTransferFeeAuthority
	OpTransferTokenAuthority
)

var opcodeNames = [...]string{
	"InitializeRegistry",
	"UpdateFees",
	"CreateEntry",
	"DeleteEntry",
	"UpdateEntry",
	"TransferFeeAuthority",
	"TransferTokenAuthority",
}

func (op Opcode) String() string {
	if int(op) < len(opcodeNames) {
		return opcodeNames[op]
	}
	return fmt.Sprintf("Unknown(%d)", uint8(op))
}

// number of accounts each opcode expects, in order
var accountCounts = [...]int{11, 4, 14, 4, 4, 3, 5}

// AccountCount is the exact length of the account list op expects.
func (op Opcode) AccountCount() int {
	if int(op) < len(accountCounts) {
		return accountCounts[op]
	}
	return 0
}

const feeAmountLen = 8

// Instruction is a decoded instruction payload.
type Instruction struct {
	Opcode    Opcode
	FeeAmount uint64           // InitializeRegistry, UpdateFees
	Entry     schema.EntryArgs // CreateEntry, UpdateEntry
}

// Unpack decodes [opcode][payload]. Bytes past a fixed size payload are
// ignored, as is any payload of the argument-less opcodes.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, schema.ErrInvalidInstructionData
	}
	ix := Instruction{Opcode: Opcode(data[0])}
	rest := data[1:]
	switch ix.Opcode {
	case OpInitializeRegistry, OpUpdateFees:
		if len(rest) < feeAmountLen {
			return ix, schema.ErrInvalidInstructionData
		}
		amount, err := bin.NewBinDecoder(rest[:feeAmountLen]).ReadUint64(binary.BigEndian)
		if err != nil {
			return ix, schema.ErrInvalidInstructionData
		}
		ix.FeeAmount = amount
	case OpCreateEntry, OpUpdateEntry:
		args, err := codec.DecodeEntryArgs(rest)
		if err != nil {
			return ix, schema.ErrInvalidInstructionData
		}
		ix.Entry = args
	case OpDeleteEntry, OpTransferFeeAuthority, OpTransferTokenAuthority:
	default:
		return ix, schema.ErrInvalidInstructionData
	}
	return ix, nil
}

// Pack is the inverse of Unpack.
func (ix Instruction) Pack() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBinEncoder(buf)
	if err := enc.WriteUint8(uint8(ix.Opcode)); err != nil {
		return nil, err
	}
	switch ix.Opcode {
	case OpInitializeRegistry, OpUpdateFees:
		if err := enc.WriteUint64(ix.FeeAmount, binary.BigEndian); err != nil {
			return nil, err
		}
	case OpCreateEntry, OpUpdateEntry:
		payload, err := codec.EncodeEntryArgs(ix.Entry)
		if err != nil {
			return nil, err
		}
		if err = enc.WriteBytes(payload, false); err != nil {
			return nil, err
		}
	case OpDeleteEntry, OpTransferFeeAuthority, OpTransferTokenAuthority:
	default:
		return nil, schema.ErrInvalidInstructionData
	}
	return buf.Bytes(), nil
}
