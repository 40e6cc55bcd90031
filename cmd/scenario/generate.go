package main

import (
	"github.com/urfave/cli/v2"
)

var generate = cli.Command{
	Name:  "generate",
	Usage: "generate a scenario for a script under test",
	Flags: []cli.Flag{
		&scenarioFlag,
		&unlockingFlag,
		&lockingFlag,
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "include the compilations of the scripts under test",
		},
	},
	Action: generateAction,
}

func generateAction(ctx *cli.Context) error {
	svc, err := getScenarioService()
	if err != nil {
		return err
	}

	req := generateRequest(ctx)
	req.Debug = ctx.Bool("debug")

	reply, err := svc.GenerateScenario(ctx.Context, req)
	if reply != nil {
		if err := printJSON(ctx.App.Writer, reply); err != nil {
			return err
		}
	}
	return err
}
