// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/staranto/invctl/internal/loader"
	"github.com/staranto/invctl/internal/output"
)

// GlobalFlagsValidator checks flag combinations that the per-flag validators
// cannot see.
func GlobalFlagsValidator(ctx context.Context, c *cli.Command) error {
	if c.Bool("actions") {
		if o := c.String("output"); o != "" && o != "text" {
			return fmt.Errorf("--actions only applies to text output, not %s", o)
		}
	}
	if c.Bool("verbose") {
		if o := c.String("output"); o != "" && o != "text" {
			return fmt.Errorf("--verbose only applies to text output, not %s", o)
		}
	}
	return nil
}

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

// JammedFlagValidator verifies that the arg following a flag does not begin
// with '--'.  urfave/cli allows this and I don't see how to turn it off.
func JammedFlagValidator(value any) error {
	if strings.HasPrefix(value.(string), "--") {
		return errors.New("must not begin with '--'")
	}
	return nil
}

func OutputValidator(value any) error {
	return oneOf(value, []string{"text", "json", "raw", "yaml", "csv"})
}

func ExportFormatValidator(value any) error {
	return oneOf(value, output.ExportFormats)
}

func InputValidator(value any) error {
	return oneOf(value, []string{loader.FormatAuto, loader.FormatJSON, loader.FormatLines, loader.FormatYAML})
}

func oneOf(value any, valid []string) error {
	s, _ := value.(string)
	if !slices.Contains(valid, s) {
		return fmt.Errorf("must be one of %v", valid)
	}
	return nil
}
