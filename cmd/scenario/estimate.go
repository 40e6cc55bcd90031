package main

import (
	"github.com/urfave/cli/v2"
)

var estimate = cli.Command{
	Name:  "estimate",
	Usage: "estimate the size and fee of the transaction of a scenario, " +
		"by default the estimate scenario of the unlocking script",
	Flags: []cli.Flag{
		&scenarioFlag,
		&unlockingFlag,
		&lockingFlag,
	},
	Action: estimateAction,
}

func estimateAction(ctx *cli.Context) error {
	svc, err := getScenarioService()
	if err != nil {
		return err
	}

	estimation, err := svc.EstimateScenario(ctx.Context, generateRequest(ctx))
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, estimation)
}
