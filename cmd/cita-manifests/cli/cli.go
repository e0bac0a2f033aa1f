package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type CLI struct {
	Name   string
	V      *viper.Viper
	FS     afero.Fs
	Logger *logrus.Logger

	closeLog func() error
}

func NewCLI(name string) *CLI {
	cli := &CLI{
		Name:   name,
		V:      viper.New(),
		FS:     afero.NewOsFs(),
		Logger: logrus.StandardLogger(),
	}
	return cli
}

// Close releases the log file opened for the last command, if any.
func (cli *CLI) Close() error {
	if cli.closeLog == nil {
		return nil
	}
	closeLog := cli.closeLog
	cli.closeLog = nil
	return closeLog()
}

func (cli *CLI) init() {
	cli.V.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	cli.V.SetEnvPrefix("CITA")
	cli.V.AutomaticEnv()
}

func (cli *CLI) bindFlags(flags *pflag.FlagSet) {
	cli.V.BindPFlags(flags)
}

// readConfigFile merges an optional config file into the flag and env values. Flags set on the
// command line still win.
func (cli *CLI) readConfigFile() error {
	path := cli.V.GetString("config")
	if path == "" {
		return nil
	}
	cli.V.SetFs(cli.FS)
	cli.V.SetConfigFile(path)
	if err := cli.V.ReadInConfig(); err != nil {
		return errors.Wrap(err, "read config file")
	}
	return nil
}

// stringList reads a list value. Strings from the environment or a config file are split on
// commas, matching the flag syntax.
func (cli *CLI) stringList(key string) ([]string, error) {
	raw := cli.V.Get(key)
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok {
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		raw = strings.Split(s, ",")
	}
	list, err := cast.ToStringSliceE(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", key, err)
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		out = append(out, strings.TrimSpace(item))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// portList reads a list of decimal ports. Leading zeros are decimal, never octal, and values
// outside int32 are rejected instead of truncated.
func (cli *CLI) portList(key string) ([]int32, error) {
	list, err := cli.stringList(key)
	if err != nil {
		return nil, err
	}
	out := make([]int32, 0, len(list))
	for _, item := range list {
		port, err := strconv.ParseInt(item, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", key, err)
		}
		out = append(out, int32(port))
	}
	return out, nil
}

// normalizeFlagName accepts the legacy underscore flag names.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}
