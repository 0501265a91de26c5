package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/ledger"
	"github.com/everFinance/tokenregistry/pda"
	"github.com/everFinance/tokenregistry/schema"
)

func (p *Processor) createEntry(programID solana.PublicKey, accounts []*ledger.AccountInfo, args schema.EntryArgs, invoker ledger.Invoker) error {
	var (
		user = accounts[0]
		mint = accounts[1]
		fees = feeAccounts{
			payer:        user,
			source:       accounts[2],
			collectorAta: accounts[3],
			collector:    accounts[4],
			feeMint:      accounts[5],
		}
		hostAccounts = accounts[6:10]
		meta         = accounts[10]
		head         = accounts[11]
		first        = accounts[12]
		node         = accounts[13]
	)
	if err := hostPrograms(hostAccounts); err != nil {
		return err
	}
	if err := isSignerAndExternallyOwned(user); err != nil {
		return err
	}
	record, err := isInitialized(programID, meta)
	if err != nil {
		return err
	}
	if err = isAssetIdentity(mint); err != nil {
		return err
	}
	if _, err = matchesDerivation(programID, head, []byte(schema.HeadSeed)); err != nil {
		return err
	}
	seed := pda.NodeSeed(mint.Key)
	bump, err := matchesDerivation(programID, node, seed)
	if err != nil {
		return err
	}

	var existing *schema.RegistryNode
	if !node.IsEmpty() {
		current, err := readNode(node)
		if err != nil {
			return err
		}
		if !current.Deleted {
			return schema.ErrPreviouslyRegisteredMint
		}
		existing = &current
	}

	if !feeExempt(record, user.Key) {
		if err = collectFee(record, fees, invoker); err != nil {
			return err
		}
	}

	// a revived tombstone keeps its place in the chain, so the supplied first
	// node is neither read nor written
	if existing != nil {
		revived, err := reviveEntry(*existing, user.Key, args)
		if err != nil {
			return err
		}
		return writeNode(node, revived)
	}

	headNode, err := readNode(head)
	if err != nil {
		return err
	}
	if !headNode.NextRegistryNode.Equals(first.Key) {
		return schema.ErrInvalidRegistryNodeFirst
	}
	firstNode, err := readNode(first)
	if err != nil {
		return err
	}
	ins, err := insertEntry(record, headNode, firstNode, head.Key, first.Key, node.Key, mint.Key, user.Key, args)
	if err != nil {
		return err
	}
	if err = invoker.CreateAccount(user, node, uint64(codec.NodeSlotSpace()), programID, pda.SignerSeeds(seed, bump)); err != nil {
		return err
	}
	if err = writeNode(head, ins.Head); err != nil {
		return err
	}
	if err = writeNode(first, ins.First); err != nil {
		return err
	}
	if err = writeNode(node, ins.Node); err != nil {
		return err
	}
	return writeMeta(meta, ins.Meta)
}

// entryTarget resolves the user, mint and node accounts shared by the
// instructions acting on an existing entry.
func entryTarget(programID solana.PublicKey, user, mint, meta, node *ledger.AccountInfo) (schema.RegistryNode, error) {
	if !user.IsSigner {
		return schema.RegistryNode{}, schema.ErrInvalidUserAccount
	}
	if _, err := isInitialized(programID, meta); err != nil {
		return schema.RegistryNode{}, err
	}
	if err := isAssetIdentity(mint); err != nil {
		return schema.RegistryNode{}, err
	}
	if _, err := matchesDerivation(programID, node, pda.NodeSeed(mint.Key)); err != nil {
		return schema.RegistryNode{}, err
	}
	if node.IsEmpty() {
		return schema.RegistryNode{}, schema.ErrInvalidMint
	}
	return readNode(node)
}

func (p *Processor) deleteEntry(programID solana.PublicKey, accounts []*ledger.AccountInfo) error {
	user, mint, meta, node := accounts[0], accounts[1], accounts[2], accounts[3]
	current, err := entryTarget(programID, user, mint, meta, node)
	if err != nil {
		return err
	}
	next, err := deleteEntry(current, user.Key)
	if err != nil {
		return err
	}
	return writeNode(node, next)
}

func (p *Processor) updateEntry(programID solana.PublicKey, accounts []*ledger.AccountInfo, args schema.EntryArgs) error {
	user, mint, meta, node := accounts[0], accounts[1], accounts[2], accounts[3]
	current, err := entryTarget(programID, user, mint, meta, node)
	if err != nil {
		return err
	}
	next, err := updateEntry(current, user.Key, args)
	if err != nil {
		return err
	}
	return writeNode(node, next)
}

func (p *Processor) transferTokenAuthority(programID solana.PublicKey, accounts []*ledger.AccountInfo) error {
	user, newAuthority, mint, meta, node := accounts[0], accounts[1], accounts[2], accounts[3], accounts[4]
	current, err := entryTarget(programID, user, mint, meta, node)
	if err != nil {
		return err
	}
	if err = authorityMatches(current.TokenUpdateAuthority, user.Key, schema.ErrInvalidTokenUpdateAuthority); err != nil {
		return err
	}
	if err = isSystemAccount(newAuthority); err != nil {
		return err
	}
	next, err := transferTokenAuthority(current, user.Key, newAuthority.Key)
	if err != nil {
		return err
	}
	return writeNode(node, next)
}
