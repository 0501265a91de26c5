package tokenregistry

import (
	"github.com/gagliardetto/solana-go"
)

func (s *TokenRegistry) runJobs() {
	s.scheduler.Every(s.config.RefreshInterval).Seconds().SingletonMode().Do(s.updateEntryMetrics)
	s.scheduler.Every(s.config.RefreshInterval).Seconds().SingletonMode().Do(s.updateCollectorMetrics)

	s.scheduler.StartAsync()
}

func (s *TokenRegistry) updateEntryMetrics() {
	live, deleted, err := s.reader.Count()
	if err == ErrNotInitialized {
		return
	}
	if err != nil {
		log.Error("s.reader.Count()", "err", err)
		return
	}
	metricEntries(live, deleted)
}

func (s *TokenRegistry) updateCollectorMetrics() {
	meta, err := s.reader.Meta()
	if err != nil {
		return
	}
	ata, _, err := solana.FindAssociatedTokenAddress(meta.FeeDestination, meta.FeeMint)
	if err != nil {
		log.Error("solana.FindAssociatedTokenAddress", "err", err)
		return
	}
	bal, err := s.ledger.TokenBalance(ata)
	if err != nil {
		log.Warn("collector balance unavailable", "ata", ata, "err", err)
		return
	}
	decimals, err := s.ledger.MintDecimals(meta.FeeMint)
	if err != nil {
		log.Warn("fee mint decimals unavailable", "mint", meta.FeeMint, "err", err)
		return
	}
	metricCollectorBalance(meta.FeeDestination.String(), meta.FeeMint.String(), bal, decimals)
}
