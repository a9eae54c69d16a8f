package app

import (
	"fmt"
	"os"
	"path/filepath"

	"ffscore/nlp/translation/ff"
	"ffscore/util"
	"ffscore/util/conf"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var (
	// file names
	configFile   string
	featuresFile string
	inputFile    string
	outFile      string

	// processing options
	latticeInput bool
	jsonOut      bool
	limit        int
)

// flags that override decoder configuration keys when set
var flagKeys = map[string]string{
	"beam":              "decoder.beam_size",
	"max-phrase-length": "decoder.max_phrase_length",
	"workers":           "decoder.workers",
	"nbest":             "decoder.n_best",
	"legacy":            "decoder.legacy_input_scoring",
	"basedir":           "decoder.base_dir",
	"log-level":         "log.level",
}

func addDecoderFlags(cmd *commander.Command) {
	cmd.Flag.StringVar(&configFile, "c", "", "Decoder configuration file (TOML or YAML)")
	cmd.Flag.StringVar(&featuresFile, "f", "", "Feature setup file (YAML or moses.ini style)")
	cmd.Flag.Int("beam", 0, "Beam size per stack")
	cmd.Flag.Int("max-phrase-length", 0, "Maximum number of input arcs per phrase")
	cmd.Flag.Bool("legacy", false, "Phrase tables apply lattice input scores (InputFeature is a no-op)")
	cmd.Flag.String("basedir", "", "Directory relative resource paths are resolved against")
	cmd.Flag.String("log-level", "", "Log level (debug, info, warn, error)")
}

func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, name := range required {
		f := cmd.Flag.Lookup(name)
		if f == nil || f.Value.String() == "" {
			cmd.Usage()
			return fmt.Errorf("required flag %s not set", name)
		}
	}
	return nil
}

func VerifyExists(filename string) error {
	if _, err := os.Stat(filename); err != nil {
		return fmt.Errorf("error accessing file %s: %v", filename, err)
	}
	return nil
}

// FlagOverrides collects the configuration keys of the flags set on cmd
func FlagOverrides(cmd *commander.Command) map[string]any {
	overrides := make(map[string]any)
	cmd.Flag.Visit(func(f *flag.Flag) {
		if key, exists := flagKeys[f.Name]; exists {
			overrides[key] = f.Value.String()
		}
	})
	return overrides
}

// LoadConfig loads the decoder configuration and sets up logging from it
func LoadConfig(cmd *commander.Command) (conf.Config, error) {
	cfg, err := conf.Load(conf.LoadOptions{ConfigPath: configFile, FlagOverrides: FlagOverrides(cmd)})
	if err != nil {
		return cfg, err
	}
	opts := util.DefaultLoggerOptions()
	opts.Level = cfg.Log.Level
	opts.ReportCaller = cfg.Log.ReportCaller
	util.SetLogger(util.NewLogger(opts))
	return cfg, nil
}

// SetupRegistry registers and loads the functions of the feature setup and
// applies its weights
func SetupRegistry(cfg conf.Config, setup *conf.FeatureSetup) (*ff.Registry, *ff.Weights, error) {
	registry := ff.NewRegistry()
	for _, line := range setup.Features {
		if _, err := registry.Add(line); err != nil {
			return nil, nil, err
		}
	}
	baseDir := cfg.Decoder.BaseDir
	if len(baseDir) == 0 && len(featuresFile) > 0 {
		baseDir = filepath.Dir(featuresFile)
	}
	opts := &ff.Options{
		LegacyInputScoring: cfg.Decoder.LegacyInputScoring,
		BaseDir:            baseDir,
	}
	if err := registry.Load(opts); err != nil {
		return nil, nil, err
	}
	weights, err := ff.NewWeights(registry)
	if err != nil {
		return nil, nil, err
	}
	for _, line := range setup.WeightLines() {
		if err := weights.ParseLine(line); err != nil {
			return nil, nil, err
		}
	}
	return registry, weights, nil
}

func readSetup() (*conf.FeatureSetup, error) {
	if err := VerifyExists(featuresFile); err != nil {
		return nil, err
	}
	return conf.LoadFeatureConfFile(featuresFile)
}
