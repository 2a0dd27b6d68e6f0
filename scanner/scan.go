// Package scanner enumerates candidate strike pairs for a dual-underlying
// session, filters them by liquidity, picks a promising entry time per pair
// with a cheap heuristic, re-scores each survivor through the scenario
// engine, and ranks the results.
package scanner

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/dualarb/darb/marketdata"
	"github.com/dualarb/darb/models"
	"github.com/dualarb/darb/positions"
	"github.com/dualarb/darb/pricing"
	"github.com/dualarb/darb/scenario"
)

var (
	ErrNoUnderlying = errors.New("no underlying bars")
	ErrNoOptionData = errors.New("no option data")
)

// Input is the fully materialized session data a scan runs over. The caller
// owns loading; the scanner never touches I/O.
type Input struct {
	PrimaryBars   []marketdata.Bar
	SecondaryBars []marketdata.Bar
	Options       map[marketdata.ContractKey]*marketdata.OptionSeries
}

// Scan evaluates every pairable strike combination for one option type and
// returns the surviving pairs ranked by params.SortBy. Individual pairs that
// cannot be priced or are too thin are dropped silently; only wholesale
// absence of a required series is an error.
func Scan(in Input, cfg models.StrategyConfig, right marketdata.Right, params models.ScanParams) ([]models.ScanResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params = params.Normalize()

	if len(in.PrimaryBars) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoUnderlying, cfg.PrimarySymbol)
	}
	if len(in.SecondaryBars) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoUnderlying, cfg.SecondarySymbol)
	}

	openP := marketdata.SessionOpen(in.PrimaryBars)
	openS := marketdata.SessionOpen(in.SecondaryBars)
	if openP <= 0 || openS <= 0 {
		return nil, fmt.Errorf("%w: non-positive session open", ErrNoUnderlying)
	}
	openRatio := openS / openP

	strikesP := strikesFor(in.Options, cfg.PrimarySymbol, right)
	strikesS := strikesFor(in.Options, cfg.SecondarySymbol, right)
	if len(strikesP) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoOptionData, cfg.PrimarySymbol)
	}
	if len(strikesS) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoOptionData, cfg.SecondarySymbol)
	}

	pairs := PairStrikes(strikesP, strikesS, openRatio, params.PairTolerancePct, cfg.StrikeStep)
	log.Debug().
		Str("primary", cfg.PrimarySymbol).
		Str("secondary", cfg.SecondarySymbol).
		Str("right", string(right)).
		Float64("open_ratio", openRatio).
		Int("pairs", len(pairs)).
		Msg("scanning strike pairs")

	results := evaluatePairs(in, cfg, right, params, pairs, openP, openS, openRatio)

	Rank(results, params.SortBy)
	log.Debug().Int("kept", len(results)).Int("dropped", len(pairs)-len(results)).Msg("scan complete")
	return results, nil
}

func strikesFor(options map[marketdata.ContractKey]*marketdata.OptionSeries, symbol string, right marketdata.Right) []float64 {
	seen := make(map[float64]bool)
	var strikes []float64
	for key, series := range options {
		if key.Symbol != symbol || key.Right != right || seen[key.Strike] {
			continue
		}
		if series.Availability() == marketdata.NoData {
			continue
		}
		seen[key.Strike] = true
		strikes = append(strikes, key.Strike)
	}
	sort.Float64s(strikes)
	return strikes
}

// evaluatePairs fans the pair jobs out over NumCPU workers. Pair order is
// irrelevant because Rank resorts the complete set.
func evaluatePairs(in Input, cfg models.StrategyConfig, right marketdata.Right, params models.ScanParams, pairs []positions.StrikePair, openP, openS, openRatio float64) []models.ScanResult {
	numWorkers := runtime.NumCPU()
	jobs := make(chan positions.StrikePair, len(pairs))
	resultChan := make(chan models.ScanResult, len(pairs))

	var bar *mpb.Bar
	var progress *mpb.Progress
	if params.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(pairs)),
			mpb.PrependDecorators(
				decor.Name("Pairs"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
		stop := monitorCPUUsage()
		defer close(stop)
	}

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range jobs {
				if res, ok := evaluatePair(in, cfg, right, params, pair, openP, openS, openRatio); ok {
					resultChan <- res
				}
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	for _, pair := range pairs {
		jobs <- pair
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	var results []models.ScanResult
	for res := range resultChan {
		results = append(results, res)
	}
	if progress != nil {
		progress.Wait()
	}
	return results
}

func evaluatePair(in Input, cfg models.StrategyConfig, right marketdata.Right, params models.ScanParams, pair positions.StrikePair, openP, openS, openRatio float64) (models.ScanResult, bool) {
	pSeries := in.Options[marketdata.ContractKey{Symbol: cfg.PrimarySymbol, Strike: pair.Primary, Right: right}]
	sSeries := in.Options[marketdata.ContractKey{Symbol: cfg.SecondarySymbol, Strike: pair.Secondary, Right: right}]
	if pSeries.Availability() == marketdata.NoData || sSeries.Availability() == marketdata.NoData {
		return models.ScanResult{}, false
	}

	volP := marketdata.SessionVolume(pSeries.Trades)
	volS := marketdata.SessionVolume(sSeries.Trades)
	if params.HideIlliquid && (volP < params.MinVolume || volS < params.MinVolume) {
		return models.ScanResult{}, false
	}

	rows := mergeLiquid(pSeries.Trades, sSeries.Trades, openRatio)
	if len(rows) == 0 {
		return models.ScanResult{}, false
	}

	// Pick the entry candidate by quick score and, separately, the row with
	// the largest raw spread for display.
	bestIdx, spreadIdx := 0, 0
	bestScore := math.Inf(-1)
	for i, row := range rows {
		uP := marketdata.CloseAt(in.PrimaryBars, row.Timestamp)
		uS := marketdata.CloseAt(in.SecondaryBars, row.Timestamp)
		score := quickScore(row.Spread, pair.Primary, pair.Secondary, cfg.QtyRatio, params.DriftTolerance, uP, uS)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
		if math.Abs(row.Spread) > math.Abs(rows[spreadIdx].Spread) {
			spreadIdx = i
		}
	}
	entryTime := rows[bestIdx].Timestamp
	spreadTime := rows[spreadIdx].Timestamp

	sideCfg := cfg
	sideCfg.IncludeCalls = right == marketdata.Call
	sideCfg.IncludePuts = right == marketdata.Put

	// Accurate re-score at the chosen entry time.
	entryPos, ok := buildAt(sideCfg, right, pair, pSeries, sSeries, entryTime, params.WideSpreadPct)
	if !ok {
		return models.ScanResult{}, false
	}
	entryP := marketdata.CloseAt(in.PrimaryBars, entryTime)
	entryS := marketdata.CloseAt(in.SecondaryBars, entryTime)
	if entryP <= 0 || entryS <= 0 {
		return models.ScanResult{}, false
	}
	_, worst := scenario.Evaluate(entryPos.position, entryP, entryS, scenario.GridParams{
		PrimarySymbol:   cfg.PrimarySymbol,
		SecondarySymbol: cfg.SecondarySymbol,
		GridPoints:      params.GridPoints,
		PriceRangePct:   params.PriceRangePct,
		DriftTolerance:  params.DriftTolerance,
	})

	// Credit quoted at the max-spread time, reported next to the entry the
	// quick score selected.
	spreadPos, ok := buildAt(sideCfg, right, pair, pSeries, sSeries, spreadTime, params.WideSpreadPct)
	if !ok {
		return models.ScanResult{}, false
	}

	direction := cfg.CallDirection
	if right == marketdata.Put {
		direction = cfg.PutDirection
	}

	riskReward := models.RiskRewardCap
	if worst.NetPnL < 0 {
		riskReward = spreadPos.position.TotalCredit / math.Abs(worst.NetPnL)
	}

	return models.ScanResult{
		PrimaryStrike:     pair.Primary,
		SecondaryStrike:   pair.Secondary,
		Moneyness:         formatMoneyness(pair.Primary, openP, right),
		MaxSpread:         rows[spreadIdx].Spread,
		MaxSpreadTime:     spreadTime,
		CreditAtMaxSpread: spreadPos.position.TotalCredit,
		WorstCase:         worst.NetPnL,
		BestEntryTime:     entryTime,
		Direction:         direction,
		PrimaryVolume:     volP,
		SecondaryVolume:   volS,
		LiquidityTier:     liquidityTier(volP, volS, params.MinVolume),
		PriceSource:       priceSource(entryPos.primaryQuote, entryPos.secondaryQuote),
		RiskReward:        riskReward,
	}, true
}

type builtPosition struct {
	position       models.Position
	primaryQuote   models.PriceQuote
	secondaryQuote models.PriceQuote
}

func buildAt(cfg models.StrategyConfig, right marketdata.Right, pair positions.StrikePair, pSeries, sSeries *marketdata.OptionSeries, at time.Time, wideSpreadPct float64) (builtPosition, bool) {
	pq, okP := pricing.Resolve(pSeries, at, wideSpreadPct)
	sq, okS := pricing.Resolve(sSeries, at, wideSpreadPct)
	if !okP || !okS {
		return builtPosition{}, false
	}

	var prices positions.LegPrices
	if right == marketdata.Call {
		prices.PrimaryCall = pq.Price
		prices.SecondaryCall = sq.Price
	} else {
		prices.PrimaryPut = pq.Price
		prices.SecondaryPut = sq.Price
	}
	return builtPosition{
		position:       positions.Build(cfg, pair, prices),
		primaryQuote:   pq,
		secondaryQuote: sq,
	}, true
}

func priceSource(pq, sq models.PriceQuote) string {
	if pq.Source == sq.Source {
		return pq.Source
	}
	return "mixed"
}

func liquidityTier(volP, volS, minVolume int) string {
	v := volP
	if volS < v {
		v = volS
	}
	switch {
	case v >= 500:
		return "high"
	case v >= 100:
		return "medium"
	case v >= minVolume:
		return "low"
	}
	return "illiquid"
}

func formatMoneyness(strike, open float64, right marketdata.Right) string {
	if open <= 0 {
		return "n/a"
	}
	pct := (strike/open - 1) * 100
	if math.Abs(pct) < 0.25 {
		return "ATM"
	}
	otm := pct > 0
	if right == marketdata.Put {
		otm = pct < 0
	}
	if otm {
		return fmt.Sprintf("%+.1f%% OTM", pct)
	}
	return fmt.Sprintf("%+.1f%% ITM", pct)
}
