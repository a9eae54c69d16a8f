package app

import (
	"ffscore/util"
	"ffscore/util/conf"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var configOut string

func InitConfig(cmd *commander.Command, args []string) error {
	if err := VerifyFlags(cmd, []string{"out"}); err != nil {
		return err
	}
	if err := conf.WriteDefault(configOut); err != nil {
		return err
	}
	util.Logger().Info("wrote default configuration", "path", configOut)
	return nil
}

func InitConfigCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       InitConfig,
		UsageLine: "init-config -out <file>",
		Short:     "write the default decoder configuration",
		Long: `
write the default decoder configuration as TOML

	$ ./ffscore init-config -out decoder.toml

`,
		Flag: *flag.NewFlagSet("init-config", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&configOut, "out", "", "Output configuration file")
	return cmd
}
