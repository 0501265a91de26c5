package sdk

import (
	"errors"

	"github.com/everFinance/tokenregistry/schema"
	"github.com/gagliardetto/solana-go"
)

// SDK submits registry instructions to a host, filling in the accounts that
// depend on current registry state. With signers it sends signed
// transactions, without them unsigned instructions for faucet hosts.
type SDK struct {
	Registry *Registry
	Cli      *Client

	signers map[solana.PublicKey]solana.PrivateKey
}

func NewSDK(url string, signers ...solana.PrivateKey) (*SDK, error) {
	cli := New(url)
	info, err := cli.GetInfo()
	if err != nil {
		return nil, err
	}
	programID, err := solana.PublicKeyFromBase58(info.ProgramId)
	if err != nil {
		return nil, err
	}
	reg, err := NewRegistry(programID)
	if err != nil {
		return nil, err
	}
	s := &SDK{Registry: reg, Cli: cli, signers: make(map[solana.PublicKey]solana.PrivateKey)}
	s.AddSigner(signers...)
	return s, nil
}

func (s *SDK) AddSigner(keys ...solana.PrivateKey) {
	for _, k := range keys {
		s.signers[k.PublicKey()] = k
	}
}

// Sign wraps ixs in a transaction paid by the first account of the first
// instruction and signs it with the registered keys.
func (s *SDK) Sign(ixs ...solana.Instruction) (*solana.Transaction, error) {
	if len(ixs) == 0 || len(ixs[0].Accounts()) == 0 {
		return nil, errors.New("nothing to sign")
	}
	tx, err := solana.NewTransaction(ixs, solana.Hash{}, solana.TransactionPayer(ixs[0].Accounts()[0].PublicKey))
	if err != nil {
		return nil, err
	}
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if k, ok := s.signers[key]; ok {
			return &k
		}
		return nil
	})
	return tx, err
}

func (s *SDK) submit(ix solana.Instruction, err error) (string, error) {
	if err != nil {
		return "", err
	}
	if len(s.signers) == 0 {
		return s.Cli.SubmitInstruction(ix)
	}
	tx, err := s.Sign(ix)
	if err != nil {
		return "", err
	}
	return s.Cli.SubmitTransaction(tx)
}

func (s *SDK) InitializeRegistry(user, feeMint, collector solana.PublicKey, feeAmount uint64) (string, error) {
	return s.submit(s.Registry.InitializeRegistry(user, feeMint, collector, feeAmount))
}

func (s *SDK) UpdateFees(user, feeMint, collector solana.PublicKey, feeAmount uint64) (string, error) {
	return s.submit(s.Registry.UpdateFees(user, feeMint, collector, feeAmount))
}

// CreateEntry reads the current first node and fee parameters before
// building the instruction.
func (s *SDK) CreateEntry(user, mint solana.PublicKey, args schema.EntryArgs) (string, error) {
	first, err := s.Cli.FirstNode()
	if err != nil {
		return "", err
	}
	meta, err := s.Cli.GetMeta()
	if err != nil {
		return "", err
	}
	feeMint, err := solana.PublicKeyFromBase58(meta.FeeMint)
	if err != nil {
		return "", err
	}
	collector, err := solana.PublicKeyFromBase58(meta.FeeDestination)
	if err != nil {
		return "", err
	}
	return s.submit(s.Registry.CreateEntry(user, mint, first, feeMint, collector, args))
}

func (s *SDK) DeleteEntry(user, mint solana.PublicKey) (string, error) {
	return s.submit(s.Registry.DeleteEntry(user, mint))
}

func (s *SDK) UpdateEntry(user, mint solana.PublicKey, args schema.EntryArgs) (string, error) {
	return s.submit(s.Registry.UpdateEntry(user, mint, args))
}

func (s *SDK) TransferFeeAuthority(user, newAuthority solana.PublicKey) (string, error) {
	return s.submit(s.Registry.TransferFeeAuthority(user, newAuthority))
}

func (s *SDK) TransferTokenAuthority(user, newAuthority, mint solana.PublicKey) (string, error) {
	return s.submit(s.Registry.TransferTokenAuthority(user, newAuthority, mint))
}
