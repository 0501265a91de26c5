// Package ledger is the host the registry program runs in: persistent account
// slots, atomic execution of instructions against them, and the system,
// token and associated token account collaborators.
package ledger

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/everFinance/tokenregistry/cache"
	"github.com/everFinance/tokenregistry/common"
	"github.com/everFinance/tokenregistry/rawdb"
	"github.com/everFinance/tokenregistry/schema"
)

var log = common.NewLog("ledger")

// Program is an on-ledger program. Process must leave no partial effects it
// relies on: any error discards every slot write of the transaction.
type Program interface {
	Process(programID solana.PublicKey, accounts []*AccountInfo, data []byte, invoker Invoker) error
}

type Ledger struct {
	db       rawdb.KeyValueDB
	cache    *cache.Cache // may be nil
	programs map[solana.PublicKey]Program

	// one transaction at a time, so two instructions declaring the same
	// writable slots never interleave
	locker sync.Mutex
}

func New(db rawdb.KeyValueDB, c *cache.Cache) (*Ledger, error) {
	l := &Ledger{
		db:       db,
		cache:    c,
		programs: make(map[solana.PublicKey]Program),
	}
	natives := map[solana.PublicKey]Account{
		solana.SystemProgramID:                    {Owner: NativeLoaderID, Executable: true, Lamports: 1},
		solana.TokenProgramID:                     {Owner: NativeLoaderID, Executable: true, Lamports: 1},
		solana.SPLAssociatedTokenAccountProgramID: {Owner: NativeLoaderID, Executable: true, Lamports: 1},
		solana.SysVarRentPubkey:                   {Owner: SysvarOwnerID, Lamports: 1, Data: make([]byte, 17)},
	}
	if err := l.commit(natives); err != nil {
		return nil, err
	}
	return l, nil
}

// RegisterProgram deploys p at id.
func (l *Ledger) RegisterProgram(id solana.PublicKey, p Program) error {
	l.locker.Lock()
	defer l.locker.Unlock()
	l.programs[id] = p
	return l.commit(map[solana.PublicKey]Account{
		id: {Owner: NativeLoaderID, Executable: true, Lamports: 1},
	})
}

// GetAccount returns the slot at key; never written addresses read as an
// empty system-owned account.
func (l *Ledger) GetAccount(key solana.PublicKey) (Account, error) {
	k := key.String()
	if l.cache != nil {
		if data, err := l.cache.Cache.Get(k); err == nil {
			acc := Account{}
			if err = json.Unmarshal(data, &acc); err == nil {
				return acc, nil
			}
		}
	}
	data, err := l.db.Get(schema.AccountBucket, k)
	if err == schema.ErrNotExist {
		return emptyAccount(), nil
	}
	if err != nil {
		return Account{}, err
	}
	acc := Account{}
	if err = json.Unmarshal(data, &acc); err != nil {
		return Account{}, err
	}
	if l.cache != nil {
		if err = l.cache.Cache.Set(k, data); err != nil {
			log.Warn("cache account failed", "key", k, "err", err)
		}
	}
	return acc, nil
}

// Execute runs ixs as one transaction: every slot write is committed or none is.
// Signer flags are trusted, signature verification happens before the ledger.
func (l *Ledger) Execute(ctx context.Context, ixs ...solana.Instruction) (string, error) {
	if len(ixs) == 0 {
		return "", ErrEmptyTransaction
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.locker.Lock()
	defer l.locker.Unlock()

	working, pre, err := l.load(ixs)
	if err != nil {
		return "", err
	}
	for _, ix := range ixs {
		programID := ix.ProgramID()
		program, ok := l.programs[programID]
		if !ok {
			return "", ErrUnknownProgram
		}
		data, err := ix.Data()
		if err != nil {
			return "", err
		}
		infos := make([]*AccountInfo, 0, len(ix.Accounts()))
		for _, meta := range ix.Accounts() {
			infos = append(infos, working[meta.PublicKey])
		}
		if err = program.Process(programID, infos, data, &invoker{caller: programID}); err != nil {
			log.Debug("transaction failed", "program", programID, "err", err)
			return "", err
		}
	}

	changed := make(map[solana.PublicKey]Account)
	for key, info := range working {
		if info.Account.equal(pre[key]) {
			continue
		}
		if !info.IsWritable {
			return "", ErrReadonlyModified
		}
		changed[key] = info.Account
	}
	if err = l.commit(changed); err != nil {
		log.Error("commit transaction failed", "err", err)
		return "", err
	}
	return uuid.New().String(), nil
}

// load builds the working set. Flags are merged across all instructions of
// the transaction, and a key listed twice resolves to one AccountInfo.
func (l *Ledger) load(ixs []solana.Instruction) (map[solana.PublicKey]*AccountInfo, map[solana.PublicKey]Account, error) {
	working := make(map[solana.PublicKey]*AccountInfo)
	pre := make(map[solana.PublicKey]Account)
	for _, ix := range ixs {
		for _, meta := range ix.Accounts() {
			info, ok := working[meta.PublicKey]
			if !ok {
				acc, err := l.GetAccount(meta.PublicKey)
				if err != nil {
					return nil, nil, err
				}
				pre[meta.PublicKey] = acc
				info = &AccountInfo{Key: meta.PublicKey, Account: acc.clone()}
				working[meta.PublicKey] = info
			}
			info.IsSigner = info.IsSigner || meta.IsSigner
			info.IsWritable = info.IsWritable || meta.IsWritable
		}
	}
	return working, pre, nil
}

func (l *Ledger) commit(accounts map[solana.PublicKey]Account) error {
	if len(accounts) == 0 {
		return nil
	}
	kvs := make(map[string][]byte, len(accounts))
	for key, acc := range accounts {
		data, err := json.Marshal(acc)
		if err != nil {
			return err
		}
		kvs[key.String()] = data
	}
	if err := l.db.PutBatch(schema.AccountBucket, kvs); err != nil {
		return err
	}
	if l.cache != nil {
		for k, v := range kvs {
			if err := l.cache.Cache.Set(k, v); err != nil {
				// a stale entry must not outlive the write
				_ = l.cache.Cache.Delete(k)
			}
		}
	}
	return nil
}
