package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrMissingConfig is returned by constructors that were handed a nil
// match configuration. Scoring components refuse to start without one.
var ErrMissingConfig = errors.New("config: missing match configuration")

// MatchConfig cấu hình thuật toán so khớp.
//
// MatchConfig holds the tunable knobs of the similarity layer. All
// values come from the environment with typed defaults; zero values are
// legitimate settings, so absence is represented by a nil pointer.
type MatchConfig struct {
	JaroWinklerBoostThreshold     float64 `json:"jaro_winkler_boost_threshold"`
	JaroWinklerPrefixSize         int     `json:"jaro_winkler_prefix_size"`
	LengthDifferenceCutoffFactor  float64 `json:"length_difference_cutoff_factor"`
	LengthDifferencePenaltyWeight float64 `json:"length_difference_penalty_weight"`
	DifferentLetterPenaltyWeight  float64 `json:"different_letter_penalty_weight"`
	ExactMatchFavoritism          float64 `json:"exact_match_favoritism"`
	UnmatchedIndexTokenWeight     float64 `json:"unmatched_index_token_weight"`
	PhoneticFilteringDisabled     bool    `json:"phonetic_filtering_disabled"`
	KeepStopwords                 bool    `json:"keep_stopwords"`
}

// DefaultMatch returns the production defaults for the similarity layer.
func DefaultMatch() *MatchConfig {
	return &MatchConfig{
		JaroWinklerBoostThreshold:     0.7,
		JaroWinklerPrefixSize:         4,
		LengthDifferenceCutoffFactor:  0.9,
		LengthDifferencePenaltyWeight: 0.3,
		DifferentLetterPenaltyWeight:  0.9,
		ExactMatchFavoritism:          0.0,
		UnmatchedIndexTokenWeight:     0.15,
		PhoneticFilteringDisabled:     false,
		KeepStopwords:                 false,
	}
}

// SourceURLs are the download endpoints for each supported list.
type SourceURLs struct {
	OFACSDN      string `json:"ofac_sdn"`
	OFACAltNames string `json:"ofac_alt_names"`
	OFACAddrs    string `json:"ofac_addresses"`
	USCSL        string `json:"us_csl"`
	EUCSL        string `json:"eu_csl"`
	UKCSL        string `json:"uk_csl"`
}

// Server cấu hình HTTP server và pipeline nạp dữ liệu.
type Server struct {
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	DataDir         string        `json:"data_dir"`
	InitialLoad     bool          `json:"initial_load"`
	RefreshInterval time.Duration `json:"refresh_interval"`
	DownloadTimeout time.Duration `json:"download_timeout"`
	WorkerCount     int           `json:"worker_count"`
	CacheSize       int           `json:"cache_size"`
	DefaultMinMatch float64       `json:"default_min_match"`
	DefaultLimit    int           `json:"default_limit"`
	MaxLimit        int           `json:"max_limit"`
	Sources         SourceURLs    `json:"sources"`
}

// Config is everything the binaries need, loaded once at startup.
type Config struct {
	Server Server       `json:"server"`
	Match  *MatchConfig `json:"match"`
}

// Load reads configuration from the environment on top of defaults.
// Keys are dotted viper keys; the matching env var replaces dots with
// underscores and uppercases, e.g. match.keep_stopwords → MATCH_KEEP_STOPWORDS.
func Load() *Config {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Config{
		Server: Server{
			Port:            v.GetString("app.port"),
			Env:             v.GetString("app.env"),
			DataDir:         v.GetString("data.dir"),
			InitialLoad:     v.GetBool("data.initial_load"),
			RefreshInterval: v.GetDuration("data.refresh_interval"),
			DownloadTimeout: v.GetDuration("data.download_timeout"),
			WorkerCount:     v.GetInt("search.workers"),
			CacheSize:       v.GetInt("cache.size"),
			DefaultMinMatch: v.GetFloat64("search.min_match"),
			DefaultLimit:    v.GetInt("search.limit"),
			MaxLimit:        v.GetInt("search.max_limit"),
			Sources: SourceURLs{
				OFACSDN:      v.GetString("sources.ofac_sdn"),
				OFACAltNames: v.GetString("sources.ofac_alt"),
				OFACAddrs:    v.GetString("sources.ofac_add"),
				USCSL:        v.GetString("sources.us_csl"),
				EUCSL:        v.GetString("sources.eu_csl"),
				UKCSL:        v.GetString("sources.uk_csl"),
			},
		},
		Match: &MatchConfig{
			JaroWinklerBoostThreshold:     v.GetFloat64("match.jaro_winkler_boost_threshold"),
			JaroWinklerPrefixSize:         v.GetInt("match.jaro_winkler_prefix_size"),
			LengthDifferenceCutoffFactor:  v.GetFloat64("match.length_difference_cutoff_factor"),
			LengthDifferencePenaltyWeight: v.GetFloat64("match.length_difference_penalty_weight"),
			DifferentLetterPenaltyWeight:  v.GetFloat64("match.different_letter_penalty_weight"),
			ExactMatchFavoritism:          v.GetFloat64("match.exact_match_favoritism"),
			UnmatchedIndexTokenWeight:     v.GetFloat64("match.unmatched_index_token_weight"),
			PhoneticFilteringDisabled:     v.GetBool("match.phonetic_filtering_disabled"),
			KeepStopwords:                 v.GetBool("match.keep_stopwords"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8084")
	v.SetDefault("app.env", "development")

	v.SetDefault("data.dir", "./data")
	v.SetDefault("data.initial_load", true)
	v.SetDefault("data.refresh_interval", "12h")
	v.SetDefault("data.download_timeout", "90s")

	v.SetDefault("search.workers", 0) // 0 = GOMAXPROCS
	v.SetDefault("search.min_match", 0.85)
	v.SetDefault("search.limit", 10)
	v.SetDefault("search.max_limit", 100)

	v.SetDefault("cache.size", 10000)

	v.SetDefault("match.jaro_winkler_boost_threshold", 0.7)
	v.SetDefault("match.jaro_winkler_prefix_size", 4)
	v.SetDefault("match.length_difference_cutoff_factor", 0.9)
	v.SetDefault("match.length_difference_penalty_weight", 0.3)
	v.SetDefault("match.different_letter_penalty_weight", 0.9)
	v.SetDefault("match.exact_match_favoritism", 0.0)
	v.SetDefault("match.unmatched_index_token_weight", 0.15)
	v.SetDefault("match.phonetic_filtering_disabled", false)
	v.SetDefault("match.keep_stopwords", false)

	v.SetDefault("sources.ofac_sdn", "https://www.treasury.gov/ofac/downloads/sdn.csv")
	v.SetDefault("sources.ofac_alt", "https://www.treasury.gov/ofac/downloads/alt.csv")
	v.SetDefault("sources.ofac_add", "https://www.treasury.gov/ofac/downloads/add.csv")
	v.SetDefault("sources.us_csl", "https://api.trade.gov/static/consolidated_screening_list/consolidated.csv")
	v.SetDefault("sources.eu_csl", "https://webgate.ec.europa.eu/fsd/fsf/public/files/csvFullSanctionsList_1_1/content")
	v.SetDefault("sources.uk_csl", "https://ofsistorage.blob.core.windows.net/publishlive/2022format/ConList.csv")
}

// RequestTimeout is the per-request deadline applied by the search API.
func RequestTimeout() time.Duration { return 10 * time.Second }
