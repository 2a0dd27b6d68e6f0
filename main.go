package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/xhhuango/json"
	"gopkg.in/yaml.v3"

	"github.com/dualarb/darb/marketdata"
	"github.com/dualarb/darb/models"
	"github.com/dualarb/darb/scanner"
)

type scanConfig struct {
	Strategy models.StrategyConfig `yaml:"strategy"`
	Scan     models.ScanParams     `yaml:"scan"`
	Session  string                `yaml:"session"` // materialized session JSON
	Output   string                `yaml:"output"`
}

// sessionFile is the materialized in-memory table dump produced by the data
// loaders. Loading and persistence live outside this engine; main only
// deserializes what a collaborator already wrote.
type sessionFile struct {
	PrimaryBars   []marketdata.Bar  `json:"primary_bars"`
	SecondaryBars []marketdata.Bar  `json:"secondary_bars"`
	Options       []sessionContract `json:"options"`
}

type sessionContract struct {
	marketdata.ContractKey
	marketdata.OptionSeries
}

func main() {
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if os.Getenv("DARB_DEBUG") != "" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	configPath := os.Getenv("DARB_CONFIG")
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}
	if configPath == "" {
		configPath = "darb.yaml"
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("loading config")
	}

	session, err := loadSession(cfg.Session)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Session).Msg("loading session data")
	}

	in := scanner.Input{
		PrimaryBars:   session.PrimaryBars,
		SecondaryBars: session.SecondaryBars,
		Options:       make(map[marketdata.ContractKey]*marketdata.OptionSeries, len(session.Options)),
	}
	for i := range session.Options {
		c := session.Options[i]
		in.Options[c.ContractKey] = &c.OptionSeries
	}

	drift := marketdata.DriftStats(in.PrimaryBars, in.SecondaryBars)
	params := cfg.Scan.Normalize()
	log.Info().
		Int("samples", drift.Samples).
		Float64("max_abs_drift", drift.MaxAbsDrift).
		Float64("correlation", drift.Correlation).
		Float64("drift_tolerance", params.DriftTolerance).
		Msg("observed basis drift")
	if drift.MaxAbsDrift > params.DriftTolerance {
		log.Warn().Msg("drift tolerance below observed max drift; worst case is not a bound for this session")
	}

	var results []models.ScanResult
	var rights []marketdata.Right
	if cfg.Strategy.IncludeCalls {
		rights = append(rights, marketdata.Call)
	}
	if cfg.Strategy.IncludePuts {
		rights = append(rights, marketdata.Put)
	}
	for _, right := range rights {
		res, err := scanner.Scan(in, cfg.Strategy, right, params)
		if err != nil {
			log.Fatal().Err(err).Str("right", string(right)).Msg("scan failed")
		}
		log.Info().Str("right", string(right)).Int("pairs", len(res)).Msg("scan finished")
		results = append(results, res...)
	}
	scanner.Rank(results, params.SortBy)

	out, err := json.Marshal(results)
	if err != nil {
		log.Fatal().Err(err).Msg("marshalling results")
	}
	output := cfg.Output
	if output == "" {
		output = "scan_results.json"
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		log.Fatal().Err(err).Str("path", output).Msg("writing results")
	}
	log.Info().Int("results", len(results)).Str("path", output).Msg("wrote ranked scan results")
}

func loadConfig(path string) (*scanConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &scanConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Strategy.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadSession(path string) (*sessionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	session := &sessionFile{}
	if err := json.Unmarshal(data, session); err != nil {
		return nil, err
	}
	return session, nil
}
