package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"reflect"
	"unicode"

	"github.com/naoina/toml"
	"github.com/urfave/cli/v2"

	"github.com/ethereum/go-ethereum/log"

	"github.com/conflux-chain/bdm/bdm"
)

var configFileFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "TOML configuration file",
}

// tomlSettings ensures TOML keys use the same names as Go struct fields,
// the same normalization mive/cmd/mive/config.go applies.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string { return key },
	FieldToKey:    func(rt reflect.Type, field string) string { return field },
	MissingField: func(rt reflect.Type, field string) error {
		var link string
		if unicode.IsUpper(rune(rt.Name()[0])) {
			link = fmt.Sprintf(", see https://pkg.go.dev/%s#%s for available fields", rt.PkgPath(), rt.Name())
		}
		return fmt.Errorf("field '%s' is not defined in %s%s", field, rt.String(), link)
	},
}

func loadConfigFile(path string, cfg *bdm.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = tomlSettings.NewDecoder(bufio.NewReader(f)).Decode(cfg)
	if _, ok := err.(*toml.LineError); ok {
		err = errors.New(path + ", " + err.Error())
	}
	return err
}

// loadBaseConfig loads bdm.DefaultConfig(), overridden by a config file if
// one was given, overridden in turn by CLI flags.
func loadBaseConfig(ctx *cli.Context) bdm.Config {
	cfg := bdm.DefaultConfig()

	if file := ctx.String(configFileFlag.Name); file != "" {
		if err := loadConfigFile(file, &cfg); err != nil {
			log.Crit("failed to load config file", "path", file, "err", err)
		}
	}

	if ctx.IsSet(dbTypeFlag.Name) {
		cfg.DBType = ctx.String(dbTypeFlag.Name)
	}
	if ctx.IsSet(dbPathFlag.Name) {
		cfg.DBPath = ctx.String(dbPathFlag.Name)
	}
	return cfg
}
