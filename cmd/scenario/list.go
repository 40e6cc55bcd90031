package main

import (
	"github.com/urfave/cli/v2"
)

var list = cli.Command{
	Name:   "list",
	Usage:  "list the scenarios of the template and the scripts tested in them",
	Action: listAction,
}

func listAction(ctx *cli.Context) error {
	svc, err := getScenarioService()
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, svc.ListScenarios(ctx.Context))
}
