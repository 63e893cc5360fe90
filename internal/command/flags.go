// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os/exec"

	altsrc "github.com/urfave/cli-altsrc/v3"
	yaml "github.com/urfave/cli-altsrc/v3/yaml"
	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/config"
)

func init() {
	cfg, _ = config.Load("")
}

var (
	cfg config.Type

	examplesFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "examples",
		Usage:       "show usage examples",
		HideDefault: true,
	}

	tldrFlag *cli.BoolFlag = &cli.BoolFlag{
		Name:        "tldr",
		Usage:       "show tldr page",
		Hidden:      !pathHas("tldr"),
		HideDefault: true,
	}
)

// NewGlobalFlags returns the flags shared by every record emitting command.
// params[0] is the command name and namespaces config file lookups.
func NewGlobalFlags(params ...string) (flags []cli.Flag) {
	flags = []cli.Flag{
		&cli.BoolFlag{
			Name:  "actions",
			Usage: "add an actions column to text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"actions", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.BoolWithInverseFlag{
			Name:    "color",
			Aliases: []string{"c"},
			Usage:   "enable colored text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"color", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("color", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.StringFlag{
			Name:    "columns",
			Aliases: []string{"a"},
			Usage:   "comma-separated list of key[:label[:type[:transform]]] columns",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"columns", altsrc.StringSourcer(cfg.Source)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "filter",
			Aliases: []string{"f"},
			Usage:   "comma-separated list of filters to apply to results",
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "snapshot format (json, jsonl, yaml). Detected when empty",
			Validator: func(value string) error {
				return FlagValidators(value, InputValidator)
			},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"output", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("output", altsrc.StringSourcer(cfg.Source)),
			),
			Value: "text",
			Validator: func(value string) error {
				return FlagValidators(value, OutputValidator)
			},
		},
		&cli.StringFlag{
			Name:  "parent",
			Usage: "path of the record array inside the snapshot document",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"parent", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("parent", altsrc.StringSourcer(cfg.Source)),
			),
		},
		&cli.StringFlag{
			Name:    "sort",
			Aliases: []string{"s"},
			Usage:   "comma-separated list of columns to sort the results by",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"sort", altsrc.StringSourcer(cfg.Source)),
			),
			Validator: func(value string) error {
				return FlagValidators(value, JammedFlagValidator)
			},
		},
		&cli.BoolFlag{
			Name:  "strict-dates",
			Usage: "fail on unparseable dates instead of showing Invalid Date",
			Sources: cli.NewValueSourceChain(
				yaml.YAML("date.strict", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		&cli.BoolWithInverseFlag{
			Name:    "titles",
			Aliases: []string{"t"},
			Usage:   "show titles with text output",
			Sources: cli.NewValueSourceChain(
				yaml.YAML(params[0]+"."+"titles", altsrc.StringSourcer(cfg.Source)),
				yaml.YAML("titles", altsrc.StringSourcer(cfg.Source)),
			),
			Value: false,
		},
		NewFileFlag(),
	}

	return
}

// NewFileFlag constructs the "file" flag naming the snapshot to read. The
// positional argument wins over it.
func NewFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "file",
		Usage: "inventory snapshot to read, - for stdin",
		Sources: cli.NewValueSourceChain(
			cli.EnvVar("INVCTL_FILE"),
		),
	}
}

// NameSpacedValueChainFlagFromConfigFile adds namespaced and global config file
// sources to the given flag's Sources chain.
func NameSpacedValueChainFlagFromConfigFile(ns string, path string, flag *cli.StringFlag) *cli.StringFlag {
	src := yaml.YAML(ns+"."+flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	src = yaml.YAML(flag.Name, altsrc.StringSourcer(path))
	flag.Sources.Chain = append(flag.Sources.Chain, src)

	return flag
}

// pathHas reports whether target is an executable on PATH.
func pathHas(target string) bool {
	_, err := exec.LookPath(target)
	return err == nil
}
