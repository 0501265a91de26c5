package schema

type Config struct {
	ProgramId  string `yaml:"programId"` // base58, a fresh key is generated when empty
	Port       string `yaml:"port"`
	MetricPort string `yaml:"metricPort"`
	Faucet     bool   `yaml:"faucet"` // expose the genesis endpoints, local hosts only

	BoltDir string `yaml:"boltDir"`
	Sqlite  string `yaml:"sqlite"`
	Mysql   string `yaml:"mysql"`

	CacheExpire     int `yaml:"cacheExpire"`     // seconds
	RefreshInterval int `yaml:"refreshInterval"` // seconds between registry gauge refreshes

	Limit       int    `yaml:"limit"`
	LimitPeriod string `yaml:"limitPeriod"`

	SentryDsn string `yaml:"sentryDsn"`
	Env       string `yaml:"env"`
}

const (
	DefaultPort            = ":8080"
	DefaultCacheExpire     = 10 * 60
	DefaultRefreshInterval = 30
	DefaultLimit           = 100
	DefaultLimitPeriod     = "S"
)
