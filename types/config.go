package types

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/Franka-Beyer/HSprakt/logger"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultK is the vocabulary scale factor recommended by the pattern paper.
	DefaultK = 20

	DefaultVocabularyFile = "chosenPatterns.json"
	DefaultVectorsFile    = "VektorDict.json"
	DefaultDataFile       = "Data.csv"
	DefaultFormLemmaFile  = "FormLemma.json"
)

var ErrInvalidConfig = errors.New("invalid run configuration")

// Source is one result manifest and the relation label of its pairs.
type Source struct {
	Manifest string   `yaml:"manifest" json:"manifest"`
	Label    Relation `yaml:"label" json:"label"`
}

type Outputs struct {
	Vocabulary string `yaml:"vocabulary" json:"vocabulary"`
	Vectors    string `yaml:"vectors" json:"vectors"`
	Data       string `yaml:"data" json:"data"`
}

// RunConfiguration drives one vectors run.
type RunConfiguration struct {
	Name         string   `yaml:"-" json:"name"`
	FilePath     string   `yaml:"-" json:"file_path"`
	K            int      `yaml:"k" json:"k"`
	Normalize    *bool    `yaml:"normalize" json:"normalize"`
	Balance      *bool    `yaml:"balance" json:"balance"`
	FormLemma    string   `yaml:"form_lemma" json:"form_lemma"`
	MatchesDir   string   `yaml:"matches_dir" json:"matches_dir"`
	Sources      []Source `yaml:"sources" json:"sources"`
	Outputs      Outputs  `yaml:"outputs" json:"outputs"`
	UploadPrefix string   `yaml:"upload_prefix" json:"upload_prefix"`
}

func (cfg RunConfiguration) ShouldNormalize() bool {
	return cfg.Normalize == nil || *cfg.Normalize
}

// ShouldBalance defaults to true. Balanced tables are always normalized.
func (cfg RunConfiguration) ShouldBalance() bool {
	return cfg.Balance == nil || *cfg.Balance
}

// ApplyDefaults fills every unset field with the defaults of the command line.
func (cfg *RunConfiguration) ApplyDefaults() {
	if cfg.K == 0 {
		cfg.K = DefaultK
	}
	if cfg.FormLemma == "" {
		cfg.FormLemma = DefaultFormLemmaFile
	}
	if cfg.Outputs.Vocabulary == "" {
		cfg.Outputs.Vocabulary = DefaultVocabularyFile
	}
	if cfg.Outputs.Vectors == "" {
		cfg.Outputs.Vectors = DefaultVectorsFile
	}
	if cfg.Outputs.Data == "" {
		cfg.Outputs.Data = DefaultDataFile
	}
}

func (cfg RunConfiguration) Validate() error {
	if cfg.K < 1 {
		return fmt.Errorf("%w: k must be positive, got %d", ErrInvalidConfig, cfg.K)
	}
	if len(cfg.Sources) == 0 {
		return fmt.Errorf("%w: no sources", ErrInvalidConfig)
	}
	for _, source := range cfg.Sources {
		if source.Manifest == "" {
			return fmt.Errorf("%w: source without manifest", ErrInvalidConfig)
		}
		if _, err := ParseRelation(string(source.Label)); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

func LoadRunConfiguration(filePath string) (*RunConfiguration, error) {
	cfg := RunConfiguration{
		Name:     strings.TrimSuffix(path.Base(filePath), path.Ext(filePath)),
		FilePath: filePath,
	}
	buf, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return &cfg, nil
}

// LoadRunConfigurations loads every *.yaml file of dirPath. Files that fail to
// load are logged and skipped. The result is sorted by name.
func LoadRunConfigurations(dirPath string) ([]RunConfiguration, error) {
	relvecLogger := logger.NewLogger("LoadRunConfigurations")

	files, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	configChan := make(chan RunConfiguration, len(files))
	for _, f := range files {
		// Skip dirs and non-yaml files
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".yaml") {
			continue
		}

		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			cfg, err := LoadRunConfiguration(path.Join(dirPath, name))
			if err != nil {
				relvecLogger.Err(err).Str("file", name).Msg("Skipping run configuration")
				return
			}
			configChan <- *cfg
		}(f.Name())
	}

	wg.Wait()
	close(configChan)

	configs := make([]RunConfiguration, 0, len(configChan))
	for cfg := range configChan {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].Name < configs[j].Name })
	return configs, nil
}
