package tokenregistry

import (
	"errors"

	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/codec"
	"github.com/everFinance/tokenregistry/ledger"
	"github.com/everFinance/tokenregistry/pda"
	"github.com/everFinance/tokenregistry/schema"
)

var (
	ErrNotInitialized = errors.New("registry_not_initialized")
	ErrEntryNotFound  = errors.New("entry_not_found")
	ErrBrokenChain    = errors.New("registry_chain_broken")
)

// AccountGetter reads ledger slots.
type AccountGetter interface {
	GetAccount(key solana.PublicKey) (ledger.Account, error)
}

// Entry is a registered node together with its address.
type Entry struct {
	Address solana.PublicKey
	schema.RegistryNode
}

// Reader decodes registry records straight from the slots of one program.
type Reader struct {
	accounts  AccountGetter
	programID solana.PublicKey
	addrs     pda.Addresses
}

func NewReader(accounts AccountGetter, programID solana.PublicKey) (*Reader, error) {
	addrs, err := pda.RegistryAddresses(programID)
	if err != nil {
		return nil, err
	}
	return &Reader{accounts: accounts, programID: programID, addrs: addrs}, nil
}

func (r *Reader) Addresses() pda.Addresses {
	return r.addrs
}

func (r *Reader) Meta() (schema.RegistryMeta, error) {
	acc, err := r.accounts.GetAccount(r.addrs.Meta)
	if err != nil {
		return schema.RegistryMeta{}, err
	}
	if acc.IsEmpty() {
		return schema.RegistryMeta{}, ErrNotInitialized
	}
	return codec.DecodeMeta(acc.Data)
}

func (r *Reader) node(addr solana.PublicKey) (schema.RegistryNode, error) {
	acc, err := r.accounts.GetAccount(addr)
	if err != nil {
		return schema.RegistryNode{}, err
	}
	if acc.IsEmpty() || !acc.Owner.Equals(r.programID) {
		return schema.RegistryNode{}, ErrEntryNotFound
	}
	return codec.ReadNodeSlot(acc.Data)
}

// Entry returns the node of mint, tombstoned or not.
func (r *Reader) Entry(mint solana.PublicKey) (Entry, error) {
	addr, err := pda.NodeAddress(r.programID, mint)
	if err != nil {
		return Entry{}, err
	}
	node, err := r.node(addr)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Address: addr, RegistryNode: node}, nil
}

// Walk follows next from the head sentinel to the tail and calls fn for every
// node in between, tombstones included.
func (r *Reader) Walk(fn func(Entry) error) error {
	head, err := r.node(r.addrs.Head)
	if err == ErrEntryNotFound {
		return ErrNotInitialized
	}
	if err != nil {
		return err
	}
	seen := make(map[solana.PublicKey]struct{})
	cur := head.NextRegistryNode
	for !cur.Equals(r.addrs.Tail) {
		if _, ok := seen[cur]; ok || cur.IsZero() {
			return ErrBrokenChain
		}
		seen[cur] = struct{}{}
		node, err := r.node(cur)
		if err != nil {
			return err
		}
		if err = fn(Entry{Address: cur, RegistryNode: node}); err != nil {
			return err
		}
		cur = node.NextRegistryNode
	}
	return nil
}

// Entries returns the live entries, most recently registered first.
func (r *Reader) Entries() ([]Entry, error) {
	entries := make([]Entry, 0)
	err := r.Walk(func(e Entry) error {
		if !e.Deleted {
			entries = append(entries, e)
		}
		return nil
	})
	return entries, err
}

// Count returns the number of live and tombstoned entries.
func (r *Reader) Count() (live, deleted int, err error) {
	err = r.Walk(func(e Entry) error {
		if e.Deleted {
			deleted++
		} else {
			live++
		}
		return nil
	})
	return
}
