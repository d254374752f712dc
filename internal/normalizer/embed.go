package normalizer

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed data/stopwords.yaml
var stopwordsYAML []byte

//go:embed data/countries.yaml
var countriesYAML []byte

//go:embed data/rules.yaml
var rulesYAML []byte

// StopwordData là dữ liệu stopword load từ YAML nhúng.
type StopwordData struct {
	Stopwords map[string][]string `yaml:"stopwords"`
}

// CountryData holds the embedded country reference tables.
type CountryData struct {
	Codes     map[string]string `yaml:"codes"`
	Aliases   map[string]string `yaml:"aliases"`
	Languages map[string]string `yaml:"languages"`
}

// RulesData holds the embedded name/phone normalization rules.
type RulesData struct {
	CompanySuffixes []string `yaml:"company_suffixes"`
	TrunkPrefixes   []string `yaml:"trunk_prefixes"`
}

// LoadStopwordData parses the embedded stopword sets.
func LoadStopwordData() (*StopwordData, error) {
	data := &StopwordData{}
	if err := yaml.Unmarshal(stopwordsYAML, data); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadCountryData parses the embedded country tables.
func LoadCountryData() (*CountryData, error) {
	data := &CountryData{}
	if err := yaml.Unmarshal(countriesYAML, data); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadRulesData parses the embedded normalization rules.
func LoadRulesData() (*RulesData, error) {
	data := &RulesData{}
	if err := yaml.Unmarshal(rulesYAML, data); err != nil {
		return nil, err
	}
	return data, nil
}
