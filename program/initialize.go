package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/ledger"
	"github.com/everFinance/tokenregistry/pda"
	"github.com/everFinance/tokenregistry/schema"
)

func (p *Processor) initializeRegistry(programID solana.PublicKey, accounts []*ledger.AccountInfo, feeAmount uint64, invoker ledger.Invoker) error {
	var (
		user         = accounts[0]
		feeMint      = accounts[1]
		collector    = accounts[2]
		collectorAta = accounts[3]
		hostAccounts = accounts[4:8]
		meta         = accounts[8]
		head         = accounts[9]
		tail         = accounts[10]
	)
	if err := hostPrograms(hostAccounts); err != nil {
		return err
	}
	if err := isSignerAndExternallyOwned(user); err != nil {
		return err
	}

	seeds := []string{schema.MetaSeed, schema.HeadSeed, schema.TailSeed}
	slots := []*ledger.AccountInfo{meta, head, tail}
	bumps := make([]uint8, len(slots))
	for i, slot := range slots {
		bump, err := matchesDerivation(programID, slot, []byte(seeds[i]))
		if err != nil {
			return err
		}
		bumps[i] = bump
	}
	for _, slot := range slots {
		if !slot.IsEmpty() {
			return schema.ErrAlreadyInitialized
		}
	}

	if err := isAssetIdentity(feeMint); err != nil {
		return err
	}
	if err := isSystemAccount(collector); err != nil {
		return err
	}
	if err := isAssociatedTokenAccount(collectorAta, collector.Key, feeMint.Key); err != nil {
		return err
	}
	if collectorAta.IsEmpty() {
		if err := invoker.CreateAssociatedTokenAccount(user, collectorAta, collector, feeMint); err != nil {
			return err
		}
	}

	spaces := []uint64{codec.MetaSpace, uint64(codec.NodeSlotSpace()), uint64(codec.NodeSlotSpace())}
	for i, slot := range slots {
		if err := invoker.CreateAccount(user, slot, spaces[i], programID, pda.SignerSeeds([]byte(seeds[i]), bumps[i])); err != nil {
			return err
		}
	}

	reg := initialRegistry(feeAmount, feeMint.Key, collector.Key, user.Key, head.Key, tail.Key)
	if err := writeMeta(meta, reg.Meta); err != nil {
		return err
	}
	if err := writeNode(head, reg.Head); err != nil {
		return err
	}
	return writeNode(tail, reg.Tail)
}
