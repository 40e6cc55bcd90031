package main

import (
	"context"
	"fmt"

	"github.com/tdex-network/template-scenarios/internal/config"
	"github.com/urfave/cli/v2"
)

var test = cli.Command{
	Name:  "test",
	Usage: "run every unlocking script against its passes, fails and invalid scenarios",
	Description: "Scenarios are verified with a Bitcoin script engine: " +
		"BCH-only opcodes and token-prefixed outputs are not supported, so " +
		"scripts relying on them never pass verification.",
	Action: testAction,
}

func testAction(ctx *cli.Context) error {
	svc, err := getScenarioService()
	if err != nil {
		return err
	}

	timeoutCtx, cancel := context.WithTimeout(ctx.Context, config.GetDuration(config.TimeoutKey))
	defer cancel()

	results, err := svc.GenerateAll(timeoutCtx)
	if err != nil {
		return err
	}
	if err := printJSON(ctx.App.Writer, results); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scenario tests failed", failed, len(results))
	}
	return nil
}
