package signal

import (
	"log/slog"
)

// Strategy is one independent way of reading the order total out of a page
// snapshot. A strategy returns the total in minor units, or ok=false when the
// snapshot carries nothing it can use. Strategies never error: malformed data
// reads as "no result".
type Strategy interface {
	Name() string
	Detect(snapshot PageSnapshot) (int64, bool)
}

// TotalDetector runs strategies in fixed priority order and short-circuits on
// the first positive result.
type TotalDetector struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewTotalDetector builds the standard strategy chain from a config:
// structured checkout object, then DOM selector text, then query parameter,
// then meta tag.
func NewTotalDetector(cfg StrategyConfig, logger *slog.Logger) *TotalDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &TotalDetector{
		strategies: []Strategy{
			StructuredTotal{Paths: cfg.StructuredPaths},
			SelectorTotal{Selectors: cfg.TotalSelectors},
			QueryParamTotal{Params: cfg.QueryParams},
			MetaTagTotal{Names: cfg.MetaNames},
		},
		logger: logger,
	}
}

// DetectOrderTotal returns the detected total in minor units along with the
// name of the winning strategy. When every strategy comes up empty the total
// is 0: the advisory layer fails open rather than guessing.
func (d *TotalDetector) DetectOrderTotal(snapshot PageSnapshot) (int64, string) {
	for _, strategy := range d.strategies {
		if total, ok := strategy.Detect(snapshot); ok {
			return total, strategy.Name()
		}
	}
	d.logger.Debug("order total not detected by any strategy",
		"store_id", snapshot.StoreID,
	)
	return 0, ""
}
