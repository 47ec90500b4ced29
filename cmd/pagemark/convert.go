package main

import (
	"fmt"

	"github.com/pagemark/pagemark"
)

// Run executes the convert command.
func (c *ConvertCmd) Run(deps *Dependencies) error {
	mode, err := pagemark.ParseMode(c.Mode)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemark.ErrorMessage(err))
		return err
	}

	result, err := deps.Pipe.Convert(deps.Ctx, c.URL, mode)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagemark.ErrorMessage(err))
		return err
	}

	if result.EmptyNormalization {
		fmt.Fprintln(deps.Stderr, "warning: page produced no text after tag stripping")
	}

	fmt.Fprintln(deps.Stdout, result.Markdown)
	return nil
}
