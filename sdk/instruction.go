package sdk

import (
	"github.com/everFinance/tokenregistry/pda"
	"github.com/everFinance/tokenregistry/program"
	"github.com/everFinance/tokenregistry/schema"
	"github.com/gagliardetto/solana-go"
)

// Registry builds the instructions of one deployed registry program.
type Registry struct {
	ProgramID solana.PublicKey
	pda.Addresses
}

func NewRegistry(programID solana.PublicKey) (*Registry, error) {
	addrs, err := pda.RegistryAddresses(programID)
	if err != nil {
		return nil, err
	}
	return &Registry{ProgramID: programID, Addresses: addrs}, nil
}

func (r *Registry) build(ix program.Instruction, metas solana.AccountMetaSlice) (*solana.GenericInstruction, error) {
	data, err := ix.Pack()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(r.ProgramID, metas, data), nil
}

func (r *Registry) NodeAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	return pda.NodeAddress(r.ProgramID, mint)
}

func (r *Registry) InitializeRegistry(user, feeMint, collector solana.PublicKey, feeAmount uint64) (*solana.GenericInstruction, error) {
	collectorAta, _, err := solana.FindAssociatedTokenAddress(collector, feeMint)
	if err != nil {
		return nil, err
	}
	return r.build(program.Instruction{Opcode: program.OpInitializeRegistry, FeeAmount: feeAmount}, solana.AccountMetaSlice{
		solana.Meta(user).WRITE().SIGNER(),
		solana.Meta(feeMint),
		solana.Meta(collector),
		solana.Meta(collectorAta).WRITE(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(r.Meta).WRITE(),
		solana.Meta(r.Head).WRITE(),
		solana.Meta(r.Tail).WRITE(),
	})
}

func (r *Registry) UpdateFees(user, feeMint, collector solana.PublicKey, feeAmount uint64) (*solana.GenericInstruction, error) {
	return r.build(program.Instruction{Opcode: program.OpUpdateFees, FeeAmount: feeAmount}, solana.AccountMetaSlice{
		solana.Meta(user).SIGNER(),
		solana.Meta(feeMint),
		solana.Meta(collector),
		solana.Meta(r.Meta).WRITE(),
	})
}

// CreateEntry registers mint. first is the node currently linked after the
// head sentinel, and feeMint/collector the fee parameters of the registry.
func (r *Registry) CreateEntry(user, mint, first, feeMint, collector solana.PublicKey, args schema.EntryArgs) (*solana.GenericInstruction, error) {
	node, err := r.NodeAddress(mint)
	if err != nil {
		return nil, err
	}
	source, _, err := solana.FindAssociatedTokenAddress(user, feeMint)
	if err != nil {
		return nil, err
	}
	collectorAta, _, err := solana.FindAssociatedTokenAddress(collector, feeMint)
	if err != nil {
		return nil, err
	}
	return r.build(program.Instruction{Opcode: program.OpCreateEntry, Entry: args}, solana.AccountMetaSlice{
		solana.Meta(user).WRITE().SIGNER(),
		solana.Meta(mint),
		solana.Meta(source).WRITE(),
		solana.Meta(collectorAta).WRITE(),
		solana.Meta(collector),
		solana.Meta(feeMint),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SPLAssociatedTokenAccountProgramID),
		solana.Meta(solana.SysVarRentPubkey),
		solana.Meta(r.Meta).WRITE(),
		solana.Meta(r.Head).WRITE(),
		solana.Meta(first).WRITE(),
		solana.Meta(node).WRITE(),
	})
}

func (r *Registry) entryMetas(user, mint solana.PublicKey) (solana.AccountMetaSlice, error) {
	node, err := r.NodeAddress(mint)
	if err != nil {
		return nil, err
	}
	return solana.AccountMetaSlice{
		solana.Meta(user).SIGNER(),
		solana.Meta(mint),
		solana.Meta(r.Meta),
		solana.Meta(node).WRITE(),
	}, nil
}

func (r *Registry) DeleteEntry(user, mint solana.PublicKey) (*solana.GenericInstruction, error) {
	metas, err := r.entryMetas(user, mint)
	if err != nil {
		return nil, err
	}
	return r.build(program.Instruction{Opcode: program.OpDeleteEntry}, metas)
}

func (r *Registry) UpdateEntry(user, mint solana.PublicKey, args schema.EntryArgs) (*solana.GenericInstruction, error) {
	metas, err := r.entryMetas(user, mint)
	if err != nil {
		return nil, err
	}
	return r.build(program.Instruction{Opcode: program.OpUpdateEntry, Entry: args}, metas)
}

func (r *Registry) TransferFeeAuthority(user, newAuthority solana.PublicKey) (*solana.GenericInstruction, error) {
	return r.build(program.Instruction{Opcode: program.OpTransferFeeAuthority}, solana.AccountMetaSlice{
		solana.Meta(user).SIGNER(),
		solana.Meta(newAuthority),
		solana.Meta(r.Meta).WRITE(),
	})
}

func (r *Registry) TransferTokenAuthority(user, newAuthority, mint solana.PublicKey) (*solana.GenericInstruction, error) {
	node, err := r.NodeAddress(mint)
	if err != nil {
		return nil, err
	}
	return r.build(program.Instruction{Opcode: program.OpTransferTokenAuthority}, solana.AccountMetaSlice{
		solana.Meta(user).SIGNER(),
		solana.Meta(newAuthority),
		solana.Meta(mint),
		solana.Meta(r.Meta),
		solana.Meta(node).WRITE(),
	})
}
