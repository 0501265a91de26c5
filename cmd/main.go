package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/everFinance/tokenregistry"
	"github.com/everFinance/tokenregistry/schema"
)

func main() {
	app := &cli.App{
		Name: "tokenregistry",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "program_id", Value: "", Usage: "registry program id, generated on first start when empty", EnvVars: []string{"PROGRAM_ID"}},
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "sqlite", Value: "", Usage: "sqlite dsn, used instead of bolt when set", EnvVars: []string{"SQLITE"}},
			&cli.StringFlag{Name: "mysql", Value: "", Usage: "mysql dsn, e.g. root@tcp(127.0.0.1:3306)/registry?charset=utf8mb4&parseTime=True&loc=Local", EnvVars: []string{"MYSQL"}},
			&cli.IntFlag{Name: "cache_expire", Value: schema.DefaultCacheExpire, Usage: "account cache expiry in seconds", EnvVars: []string{"CACHE_EXPIRE"}},
			&cli.IntFlag{Name: "refresh_interval", Value: schema.DefaultRefreshInterval, Usage: "seconds between metric refreshes", EnvVars: []string{"REFRESH_INTERVAL"}},
			&cli.IntFlag{Name: "limit", Value: 0, Usage: "requests per period and client, 0 disables the limiter", EnvVars: []string{"LIMIT"}},
			&cli.StringFlag{Name: "limit_period", Value: schema.DefaultLimitPeriod, Usage: "S, M, H or D", EnvVars: []string{"LIMIT_PERIOD"}},
			&cli.BoolFlag{Name: "faucet", Value: false, Usage: "expose airdrop and mint endpoints", EnvVars: []string{"FAUCET"}},
			&cli.StringFlag{Name: "sentry_dsn", Value: "", EnvVars: []string{"SENTRY_DSN"}},
			&cli.StringFlag{Name: "env", Value: "dev", EnvVars: []string{"ENV"}},

			&cli.StringFlag{Name: "port", Value: schema.DefaultPort, EnvVars: []string{"PORT"}},
			&cli.StringFlag{Name: "metric_port", Value: ":6060", EnvVars: []string{"METRIC_PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	s, err := tokenregistry.New(schema.Config{
		ProgramId:       c.String("program_id"),
		Port:            c.String("port"),
		MetricPort:      c.String("metric_port"),
		Faucet:          c.Bool("faucet"),
		BoltDir:         c.String("db_dir"),
		Sqlite:          c.String("sqlite"),
		Mysql:           c.String("mysql"),
		CacheExpire:     c.Int("cache_expire"),
		RefreshInterval: c.Int("refresh_interval"),
		Limit:           c.Int("limit"),
		LimitPeriod:     c.String("limit_period"),
		SentryDsn:       c.String("sentry_dsn"),
		Env:             c.String("env"),
	})
	if err != nil {
		return err
	}
	s.Run()

	<-signals
	s.Close()

	return nil
}
