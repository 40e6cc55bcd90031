package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/template-scenarios/internal/config"
	"github.com/tdex-network/template-scenarios/internal/core/application"
	"github.com/tdex-network/template-scenarios/pkg/cashasm"
	"github.com/tdex-network/template-scenarios/pkg/template"
	"github.com/urfave/cli/v2"
)

var (
	templateFlag = cli.StringFlag{
		Name:    "template",
		Aliases: []string{"t"},
		Usage:   "path of the wallet template (json, jsonc or yaml)",
	}
	logLevelFlag = cli.IntFlag{
		Name:  "log-level",
		Usage: "logrus level, from 0 (panic) to 6 (trace)",
	}
	concurrencyFlag = cli.IntFlag{
		Name:  "concurrency",
		Usage: "max number of scenarios tested in parallel",
	}
	feeRateFlag = cli.Float64Flag{
		Name:  "fee-rate",
		Usage: "sats per byte used to estimate fees",
	}

	scenarioFlag = cli.StringFlag{
		Name:    "scenario",
		Aliases: []string{"s"},
		Usage:   "scenario id, the default scenario if empty",
	}
	unlockingFlag = cli.StringFlag{
		Name:    "unlocking",
		Aliases: []string{"u"},
		Usage:   "unlocking script under test",
	}
	lockingFlag = cli.StringFlag{
		Name:    "locking",
		Aliases: []string{"l"},
		Usage:   "locking script under test, if no unlocking script is given",
	}
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "scenario"
	app.Usage = "Generate, verify and estimate the scenarios of wallet templates"
	app.Flags = []cli.Flag{
		&templateFlag,
		&logLevelFlag,
		&concurrencyFlag,
		&feeRateFlag,
	}
	app.Before = initConfig
	app.Commands = append(
		app.Commands,
		&list,
		&defaults,
		&generate,
		&verify,
		&estimate,
		&test,
	)
	return app
}

func initConfig(ctx *cli.Context) error {
	if err := config.InitConfig(); err != nil {
		return err
	}
	if ctx.IsSet(templateFlag.Name) {
		config.Set(config.TemplateKey, ctx.String(templateFlag.Name))
	}
	if ctx.IsSet(logLevelFlag.Name) {
		config.Set(config.LogLevelKey, ctx.Int(logLevelFlag.Name))
	}
	if ctx.IsSet(concurrencyFlag.Name) {
		config.Set(config.ConcurrencyKey, ctx.Int(concurrencyFlag.Name))
	}
	if ctx.IsSet(feeRateFlag.Name) {
		config.Set(config.FeeRateKey, ctx.Float64(feeRateFlag.Name))
	}

	log.SetLevel(log.Level(config.GetInt(config.LogLevelKey)))
	return nil
}

func getScenarioService() (application.ScenarioService, error) {
	path := config.GetString(config.TemplateKey)
	if path == "" {
		return nil, fmt.Errorf(
			"missing template, use --%s or SCENARIO_%s", templateFlag.Name, config.TemplateKey,
		)
	}

	tpl, err := template.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debugf("loaded template %s", path)

	return application.NewScenarioService(
		tpl, cashasm.New(), config.GetInt(config.ConcurrencyKey), config.GetFeeRate(),
	)
}

func generateRequest(ctx *cli.Context) application.GenerateRequest {
	return application.GenerateRequest{
		ScenarioID:        ctx.String(scenarioFlag.Name),
		UnlockingScriptID: ctx.String(unlockingFlag.Name),
		LockingScriptID:   ctx.String(lockingFlag.Name),
	}
}

func printJSON(w io.Writer, resp interface{}) error {
	buf, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	fmt.Fprintln(w, string(buf))
	return nil
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[scenario] %v\n", err)
	os.Exit(1)
}
