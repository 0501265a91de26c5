// Package program is the token registry program: instruction dispatch, the
// access control gate, the linked list state machine and fee collection.
package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/common"
	"github.com/everFinance/tokenregistry/ledger"
	"github.com/everFinance/tokenregistry/schema"
)

var log = common.NewLog("program")

type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

func (p *Processor) Process(programID solana.PublicKey, accounts []*ledger.AccountInfo, data []byte, invoker ledger.Invoker) error {
	ix, err := Unpack(data)
	if err != nil {
		return err
	}
	log.Debug("RegistryInstruction::"+ix.Opcode.String(), "program", programID, "accounts", len(accounts))
	if err = accountCountMatches(accounts, ix.Opcode.AccountCount()); err != nil {
		return err
	}

	switch ix.Opcode {
	case OpInitializeRegistry:
		err = p.initializeRegistry(programID, accounts, ix.FeeAmount, invoker)
	case OpUpdateFees:
		err = p.updateFees(programID, accounts, ix.FeeAmount)
	case OpCreateEntry:
		err = p.createEntry(programID, accounts, ix.Entry, invoker)
	case OpDeleteEntry:
		err = p.deleteEntry(programID, accounts)
	case OpUpdateEntry:
		err = p.updateEntry(programID, accounts, ix.Entry)
	case OpTransferFeeAuthority:
		err = p.transferFeeAuthority(programID, accounts)
	case OpTransferTokenAuthority:
		err = p.transferTokenAuthority(programID, accounts)
	}
	if err != nil {
		log.Debug("instruction failed", "op", ix.Opcode.String(), "err", err)
	}
	return err
}

func readNode(acc *ledger.AccountInfo) (schema.RegistryNode, error) {
	return codec.ReadNodeSlot(acc.Data)
}

func writeNode(acc *ledger.AccountInfo, node schema.RegistryNode) error {
	return codec.WriteNodeSlot(acc.Data, node)
}

func writeMeta(acc *ledger.AccountInfo, meta schema.RegistryMeta) error {
	data, err := codec.EncodeMeta(meta)
	if err != nil {
		return err
	}
	if len(acc.Data) < len(data) {
		return schema.ErrCodecTooLarge
	}
	copy(acc.Data, data)
	return nil
}
