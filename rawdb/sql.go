package rawdb

import (
	"errors"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/everFinance/tokenregistry/schema"
)

const (
	SqliteType = "sqlite"
	MysqlType  = "mysql"
)

// Slot is one key/value row. Buckets share the table and are told apart by column.
type Slot struct {
	Bucket string `gorm:"primaryKey;size:64"`
	Key    string `gorm:"primaryKey;size:64"`
	Value  []byte
}

type SqlDB struct {
	Db     *gorm.DB
	dbType string
}

func NewSqliteDB(dsn string) (*SqlDB, error) {
	return newSqlDB(sqlite.Open(dsn), SqliteType)
}

func NewMysqlDB(dsn string) (*SqlDB, error) {
	return newSqlDB(mysql.Open(dsn), MysqlType)
}

func newSqlDB(dialector gorm.Dialector, dbType string) (*SqlDB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		return nil, err
	}
	if err = db.AutoMigrate(&Slot{}); err != nil {
		return nil, err
	}
	log.Info("connect db success", "type", dbType)
	return &SqlDB{Db: db, dbType: dbType}, nil
}

func (s *SqlDB) Type() string {
	return s.dbType
}

func (s *SqlDB) Put(bucket, key string, value []byte) (err error) {
	return s.PutBatch(bucket, map[string][]byte{key: value})
}

// PutBatch upserts every pair in one database transaction.
func (s *SqlDB) PutBatch(bucket string, kvs map[string][]byte) (err error) {
	if len(kvs) == 0 {
		return nil
	}
	rows := make([]Slot, 0, len(kvs))
	for k, v := range kvs {
		rows = append(rows, Slot{Bucket: bucket, Key: k, Value: v})
	}
	return s.Db.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "bucket"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).Create(&rows).Error
	})
}

func (s *SqlDB) Get(bucket, key string) (data []byte, err error) {
	row := Slot{}
	err = s.Db.Where("bucket = ? AND `key` = ?", bucket, key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, schema.ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return row.Value, nil
}

func (s *SqlDB) GetAllKey(bucket string) (keys []string, err error) {
	keys = make([]string, 0)
	err = s.Db.Model(&Slot{}).Where("bucket = ?", bucket).Pluck("key", &keys).Error
	return
}

func (s *SqlDB) Delete(bucket, key string) (err error) {
	return s.Db.Where("bucket = ? AND `key` = ?", bucket, key).Delete(&Slot{}).Error
}

func (s *SqlDB) Exist(bucket, key string) bool {
	_, err := s.Get(bucket, key)
	return err == nil
}

func (s *SqlDB) Close() (err error) {
	sqlDb, err := s.Db.DB()
	if err != nil {
		return err
	}
	return sqlDb.Close()
}
