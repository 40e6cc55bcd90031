package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var verify = cli.Command{
	Name:  "verify",
	Usage: "generate a scenario and evaluate its input under test",
	Flags: []cli.Flag{
		&scenarioFlag,
		&unlockingFlag,
		&lockingFlag,
	},
	Action: verifyAction,
}

func verifyAction(ctx *cli.Context) error {
	svc, err := getScenarioService()
	if err != nil {
		return err
	}

	req := generateRequest(ctx)
	if err := svc.VerifyScenario(ctx.Context, req); err != nil {
		return err
	}
	fmt.Fprintf(ctx.App.Writer, "%s verified\n", req)
	return nil
}
