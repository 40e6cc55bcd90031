package main

import (
	"github.com/urfave/cli/v2"
)

var defaults = cli.Command{
	Name:   "defaults",
	Usage:  "show the default scenario every scenario of the template extends",
	Action: defaultsAction,
}

func defaultsAction(ctx *cli.Context) error {
	svc, err := getScenarioService()
	if err != nil {
		return err
	}

	def, err := svc.DefaultScenario(ctx.Context)
	if err != nil {
		return err
	}
	return printJSON(ctx.App.Writer, def)
}
