package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrebq/abacus/calc"
	"github.com/urfave/cli/v2"
)

func Cmd() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Evaluate an arithmetic expression",
		ArgsUsage: "EXPRESSION",
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() == 0 {
				return errors.New("missing expression")
			}
			out, err := calc.Evaluate(ctx.Context, strings.Join(ctx.Args().Slice(), " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(ctx.App.Writer, out)
			return nil
		},
	}
}
