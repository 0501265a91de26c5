package rawdb

import (
	"github.com/everFinance/tokenregistry/common"
	"github.com/everFinance/tokenregistry/schema"
)

var log = common.NewLog("rawdb")

// KeyValueDB stores account slots. PutBatch must apply all of its writes or none.
type KeyValueDB interface {
	Put(bucket, key string, value []byte) (err error)

	PutBatch(bucket string, kvs map[string][]byte) (err error)

	Get(bucket, key string) (data []byte, err error)

	GetAllKey(bucket string) (keys []string, err error)

	Delete(bucket, key string) (err error)

	Close() (err error)

	Type() string

	Exist(bucket, key string) bool
}

func bucketNames() []string {
	return []string{
		schema.AccountBucket,
		schema.ConstantsBucket,
	}
}
