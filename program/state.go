package program

import (
	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/schema"
)

// The transitions below take the current records by value and return the
// records to persist. They never touch slots.

// genesis is the state written by InitializeRegistry.
type genesis struct {
	Meta schema.RegistryMeta
	Head schema.RegistryNode
	Tail schema.RegistryNode
}

func initialRegistry(feeAmount uint64, feeMint, feeDestination, authority, head, tail solana.PublicKey) genesis {
	return genesis{
		Meta: schema.RegistryMeta{
			HeadRegistryNode:   head,
			FeeAmount:          feeAmount,
			FeeMint:            feeMint,
			FeeDestination:     feeDestination,
			FeeUpdateAuthority: authority,
			Initialized:        true,
		},
		Head: codec.SentinelNode(tail, solana.PublicKey{}),
		Tail: codec.SentinelNode(solana.PublicKey{}, head),
	}
}

func updateFees(meta schema.RegistryMeta, signer solana.PublicKey, feeAmount uint64, feeMint, feeDestination solana.PublicKey) (schema.RegistryMeta, error) {
	if err := authorityMatches(meta.FeeUpdateAuthority, signer, schema.ErrInvalidFeeUpdateAuthority); err != nil {
		return meta, err
	}
	meta.FeeAmount = feeAmount
	meta.FeeMint = feeMint
	meta.FeeDestination = feeDestination
	return meta, nil
}

func transferFeeAuthority(meta schema.RegistryMeta, signer, newAuthority solana.PublicKey) (schema.RegistryMeta, error) {
	if err := authorityMatches(meta.FeeUpdateAuthority, signer, schema.ErrInvalidFeeUpdateAuthority); err != nil {
		return meta, err
	}
	meta.FeeUpdateAuthority = newAuthority
	return meta, nil
}

// feeExempt reports whether signer creates entries without going through
// fee collection. Only the fee authority is.
func feeExempt(meta schema.RegistryMeta, signer solana.PublicKey) bool {
	return meta.FeeUpdateAuthority.Equals(signer)
}

// insertion is the result of linking a new node right after the head sentinel.
type insertion struct {
	Meta  schema.RegistryMeta
	Head  schema.RegistryNode
	First schema.RegistryNode
	Node  schema.RegistryNode
}

// insertEntry links a node for mint between the head sentinel and first,
// the node currently following it.
func insertEntry(meta schema.RegistryMeta, head, first schema.RegistryNode, headKey, firstKey, nodeKey, mint, authority solana.PublicKey, args schema.EntryArgs) (insertion, error) {
	if !head.NextRegistryNode.Equals(firstKey) || firstKey.Equals(headKey) {
		return insertion{}, schema.ErrInvalidRegistryNodeFirst
	}
	node := schema.RegistryNode{
		NextRegistryNode:     firstKey,
		PrevRegistryNode:     headKey,
		TokenMint:            mint,
		TokenUpdateAuthority: authority,
	}
	node.Apply(args)
	if err := codec.FitsNodeSlot(node); err != nil {
		return insertion{}, err
	}
	head.NextRegistryNode = nodeKey
	first.PrevRegistryNode = nodeKey
	meta.HeadRegistryNode = nodeKey
	return insertion{Meta: meta, Head: head, First: first, Node: node}, nil
}

// reviveEntry reuses a tombstoned node in place. Links are untouched.
func reviveEntry(node schema.RegistryNode, authority solana.PublicKey, args schema.EntryArgs) (schema.RegistryNode, error) {
	if !node.Deleted {
		return node, schema.ErrPreviouslyRegisteredMint
	}
	node.Apply(args)
	node.TokenUpdateAuthority = authority
	node.Deleted = false
	if err := codec.FitsNodeSlot(node); err != nil {
		return node, err
	}
	return node, nil
}

func deleteEntry(node schema.RegistryNode, signer solana.PublicKey) (schema.RegistryNode, error) {
	if err := authorityMatches(node.TokenUpdateAuthority, signer, schema.ErrInvalidTokenUpdateAuthority); err != nil {
		return node, err
	}
	if node.Deleted {
		return node, schema.ErrPreviouslyDeletedMint
	}
	node.Deleted = true
	return node, nil
}

func updateEntry(node schema.RegistryNode, signer solana.PublicKey, args schema.EntryArgs) (schema.RegistryNode, error) {
	if err := authorityMatches(node.TokenUpdateAuthority, signer, schema.ErrInvalidTokenUpdateAuthority); err != nil {
		return node, err
	}
	if node.Deleted {
		return node, schema.ErrPreviouslyDeletedMint
	}
	node.Apply(args)
	if err := codec.FitsNodeSlot(node); err != nil {
		return node, err
	}
	return node, nil
}

func transferTokenAuthority(node schema.RegistryNode, signer, newAuthority solana.PublicKey) (schema.RegistryNode, error) {
	if err := authorityMatches(node.TokenUpdateAuthority, signer, schema.ErrInvalidTokenUpdateAuthority); err != nil {
		return node, err
	}
	if node.Deleted {
		return node, schema.ErrPreviouslyDeletedMint
	}
	node.TokenUpdateAuthority = newAuthority
	return node, nil
}
