package app

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"ffscore/nlp/translation/ff"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

// WriteLayout writes the slot range and weights of every function
func WriteLayout(w io.Writer, registry *ff.Registry, weights *ff.Weights) {
	fmt.Fprintf(w, "# %d functions, %d score components\n", registry.Len(), registry.NumScoreComponents())
	for _, f := range registry.Functions() {
		values := weights.Get(f.Name())
		strs := make([]string, len(values))
		for i, v := range values {
			strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.Name(), f.Kind(), f.Range(), strings.Join(strs, " "))
	}
	for _, key := range weights.Sparse.Keys() {
		fmt.Fprintf(w, "%s\tsparse\t-\t%v\n", key, weights.Sparse[key])
	}
}

func Features(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"f"}); err != nil {
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
	WriteLayout(os.Stdout, registry, weights)
	return nil
}

func FeaturesCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Features,
		UsageLine: "features <file options>",
		Short:     "load a feature setup and print its score vector layout",
		Long: `
load a feature setup and print its score vector layout

	$ ./ffscore features -f <features file> [-c <config file>]

`,
		Flag: *flag.NewFlagSet("features", flag.ExitOnError),
	}
	addDecoderFlags(cmd)
	return cmd
}
