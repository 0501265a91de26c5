// Package tokenregistry hosts the token registry program on a local ledger
// and serves it over HTTP.
package tokenregistry

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"

	"github.com/everFinance/tokenregistry/cache"
	"github.com/everFinance/tokenregistry/common"
	"github.com/everFinance/tokenregistry/ledger"
	"github.com/everFinance/tokenregistry/program"
	"github.com/everFinance/tokenregistry/schema"
)

var log = common.NewLog("tokenregistry")

type TokenRegistry struct {
	config    schema.Config
	store     *Store
	ledger    *ledger.Ledger
	reader    *Reader
	programID solana.PublicKey

	engine    *gin.Engine
	scheduler *gocron.Scheduler
}

func New(cfg schema.Config) (*TokenRegistry, error) {
	withDefaults(&cfg)
	if err := common.InitSentry(cfg.SentryDsn, cfg.Env); err != nil {
		log.Warn("init sentry failed", "err", err)
	}

	store, err := NewStore(cfg)
	if err != nil {
		return nil, err
	}
	c, err := cache.NewLocalCache(time.Duration(cfg.CacheExpire) * time.Second)
	if err != nil {
		return nil, err
	}
	l, err := ledger.New(store.KVDb, c)
	if err != nil {
		return nil, err
	}

	programID, err := resolveProgramId(store, cfg.ProgramId)
	if err != nil {
		return nil, err
	}
	if err = l.RegisterProgram(programID, program.NewProcessor()); err != nil {
		return nil, err
	}
	reader, err := NewReader(l, programID)
	if err != nil {
		return nil, err
	}

	s := &TokenRegistry{
		config:    cfg,
		store:     store,
		ledger:    l,
		reader:    reader,
		programID: programID,
		engine:    gin.Default(),
		scheduler: gocron.NewScheduler(time.UTC),
	}
	s.registerRoutes()
	log.Info("token registry ready", "program", programID, "meta", reader.Addresses().Meta)
	return s, nil
}

func withDefaults(cfg *schema.Config) {
	if cfg.Port == "" {
		cfg.Port = schema.DefaultPort
	}
	if cfg.CacheExpire <= 0 {
		cfg.CacheExpire = schema.DefaultCacheExpire
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = schema.DefaultRefreshInterval
	}
	if cfg.LimitPeriod == "" {
		cfg.LimitPeriod = schema.DefaultLimitPeriod
	}
	if cfg.BoltDir == "" {
		cfg.BoltDir = "./data/bolt"
	}
}

// resolveProgramId keeps the program id a store was first opened with.
func resolveProgramId(store *Store, configured string) (solana.PublicKey, error) {
	fallback := solana.NewWallet().PublicKey()
	if configured != "" {
		id, err := solana.PublicKeyFromBase58(configured)
		if err != nil {
			return solana.PublicKey{}, err
		}
		fallback = id
	}
	id, err := store.LoadProgramId(fallback)
	if err != nil {
		return solana.PublicKey{}, err
	}
	if configured != "" && !id.Equals(fallback) {
		return solana.PublicKey{}, fmt.Errorf("store holds program %s, configured %s", id, configured)
	}
	return id, nil
}

func (s *TokenRegistry) ProgramID() solana.PublicKey {
	return s.programID
}

func (s *TokenRegistry) Ledger() *ledger.Ledger {
	return s.ledger
}

func (s *TokenRegistry) Reader() *Reader {
	return s.reader
}

func (s *TokenRegistry) Run() {
	if s.config.MetricPort != "" {
		common.NewMetricServer(s.config.MetricPort)
	}
	go s.runAPI(s.config.Port)
	s.runJobs()
}

func (s *TokenRegistry) Close() {
	s.scheduler.Stop()
	if err := s.store.Close(); err != nil {
		log.Error("close store failed", "err", err)
	}
}
