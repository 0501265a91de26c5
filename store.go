package tokenregistry

import (
	"encoding/binary"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/everFinance/tokenregistry/rawdb"
	"github.com/everFinance/tokenregistry/schema"
)

type Store struct {
	KVDb rawdb.KeyValueDB

	txLocker sync.Mutex
}

// NewStore opens mysql when a dsn is given, then sqlite, and bolt otherwise.
func NewStore(cfg schema.Config) (*Store, error) {
	var (
		db  rawdb.KeyValueDB
		err error
	)
	switch {
	case cfg.Mysql != "":
		db, err = rawdb.NewMysqlDB(cfg.Mysql)
	case cfg.Sqlite != "":
		db, err = rawdb.NewSqliteDB(cfg.Sqlite)
	default:
		db, err = rawdb.NewBoltDB(cfg.BoltDir)
	}
	if err != nil {
		return nil, err
	}
	log.Info("store opened", "type", db.Type())
	return &Store{KVDb: db}, nil
}

func (s *Store) Close() error {
	return s.KVDb.Close()
}

func (s *Store) TxCount() (uint64, error) {
	data, err := s.KVDb.Get(schema.ConstantsBucket, schema.TxCountKey)
	if err == schema.ErrNotExist {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, schema.ErrNullData
	}
	return binary.BigEndian.Uint64(data), nil
}

func (s *Store) IncTxCount() error {
	s.txLocker.Lock()
	defer s.txLocker.Unlock()
	n, err := s.TxCount()
	if err != nil {
		return err
	}
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, n+1)
	return s.KVDb.Put(schema.ConstantsBucket, schema.TxCountKey, data)
}

// LoadProgramId returns the program id the store was created for, saving
// fallback when none is recorded yet.
func (s *Store) LoadProgramId(fallback solana.PublicKey) (solana.PublicKey, error) {
	data, err := s.KVDb.Get(schema.ConstantsBucket, schema.ProgramIdKey)
	if err == schema.ErrNotExist {
		return fallback, s.KVDb.Put(schema.ConstantsBucket, schema.ProgramIdKey, []byte(fallback.String()))
	}
	if err != nil {
		return solana.PublicKey{}, err
	}
	return solana.PublicKeyFromBase58(string(data))
}
