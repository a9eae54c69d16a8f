package app

import (
	"context"
	"io"
	"os"
	"runtime"
	"time"

	"ffscore/alg/search"
	"ffscore/nlp/format/lattice"
	"ffscore/nlp/format/raw"
	"ffscore/nlp/translation/ff"
	nlp "ffscore/nlp/types"
	"ffscore/util"
	"ffscore/util/conf"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

func DecodeConfigOut(cfg conf.Config, b *search.Beam, workers int) {
	log := util.Logger()
	log.Info("Configuration")
	log.Infof("Beam:\t\t%s", b.Name())
	log.Infof("Workers:\t\t%d", workers)
	log.Infof("N-Best:\t\t%d", cfg.Decoder.NBest)
	log.Infof("Legacy Input:\t%v", cfg.Decoder.LegacyInputScoring)
	log.Infof("Limit:\t\t%v", limit)
	log.Infof("Features File:\t%s", featuresFile)
	if len(configFile) > 0 {
		log.Infof("Config File:\t%s", configFile)
	}
	if latticeInput {
		log.Infof("Lattice Input:\t%s", inputFile)
	} else {
		log.Infof("Raw Input:\t\t%s", inputFile)
	}
	log.Infof("Output:\t\t%s", outputName())
}

func outputName() string {
	if len(outFile) == 0 {
		return "stdout"
	}
	return outFile
}

func readInputs() ([]nlp.Input, error) {
	var (
		read []*nlp.Lattice
		err  error
	)
	if latticeInput {
		read, err = lattice.ReadFile(inputFile, limit)
	} else {
		read, err = raw.ReadFile(inputFile, limit)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", inputFile)
	}
	inputs := make([]nlp.Input, len(read))
	for i, l := range read {
		inputs[i] = l
	}
	return inputs, nil
}

// DecodeAll decodes inputs on at most workers goroutines. Results keep the
// input order; the first failure stops scheduling further inputs.
func DecodeAll(ctx context.Context, b *search.Beam, inputs []nlp.Input, workers, nbest int) ([]*Result, error) {
	job := uuid.NewString()
	log := util.Logger().With("job", job)
	results := make([]*Result, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	start := time.Now()
	for i, input := range inputs {
		if ctx.Err() != nil {
			break
		}
		i, input := i, input
		g.Go(func() error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			hypotheses, err := b.NBest(input, nbest)
			if err != nil {
				log.Error("decoding failed", "input", input.ID(), "err", err)
				return errors.Wrapf(err, "decoding input %d", input.ID())
			}
			results[i] = NewResult(b, input, hypotheses)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("decoded", "inputs", len(inputs), "workers", workers, "elapsed", time.Since(start))
	return results, nil
}

func Decode(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"f", "in"}); err != nil {
		return err
	}
	cfg, err := LoadConfig(cmd)
	if err != nil {
		return err
	}
	setup, err := readSetup()
	if err != nil {
		return err
	}
	registry, weights, err := SetupRegistry(cfg, setup)
	if err != nil {
		return err
	}
	evaluator, err := ff.NewEvaluator(registry)
	if err != nil {
		return err
	}
	beam := search.NewBeam(evaluator, weights, cfg.Decoder.BeamSize, cfg.Decoder.MaxPhraseLength)
	workers := cfg.Decoder.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	DecodeConfigOut(cfg, beam, workers)

	inputs, err := readInputs()
	if err != nil {
		return err
	}
	util.Logger().Info("read inputs", "count", len(inputs))
	results, err := DecodeAll(context.Background(), beam, inputs, workers, cfg.Decoder.NBest)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if len(outFile) > 0 {
		file, err := os.Create(outFile)
		if err != nil {
			return errors.Wrap(err, "creating output")
		}
		defer file.Close()
		out = file
	}
	if jsonOut {
		return WriteJSON(out, results)
	}
	return WriteText(out, results, cfg.Decoder.NBest > 1)
}

func DecodeCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Decode,
		UsageLine: "decode <file options> [arguments]",
		Short:     "decode raw sentences or lattices with a feature function setup",
		Long: `
decode raw sentences or lattices with a feature function setup

	$ ./ffscore decode -f <features file> -in <input file> [-lattice] [-out <output file>] [options]

`,
		Flag: *flag.NewFlagSet("decode", flag.ExitOnError),
	}
	addDecoderFlags(cmd)
	cmd.Flag.StringVar(&inputFile, "in", "", "Input file, raw text or lattices")
	cmd.Flag.StringVar(&outFile, "out", "", "Output file (default stdout)")
	cmd.Flag.BoolVar(&latticeInput, "lattice", false, "Input is in lattice format")
	cmd.Flag.BoolVar(&jsonOut, "json", false, "Write JSON lines output")
	cmd.Flag.IntVar(&limit, "limit", 0, "limit number of inputs")
	cmd.Flag.Int("workers", 0, "Number of inputs decoded concurrently; 0 = all CPUs")
	cmd.Flag.Int("nbest", 0, "Number of translations per input")
	return cmd
}
