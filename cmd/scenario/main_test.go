package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const additionTemplate = `
entities:
  owner:
    variables:
      var1:
        type: WalletData
scenarios:
  three:
    data:
      bytecode:
        var1: "0x03"
  four:
    extends: three
    data:
      bytecode:
        var1: "0x04"
scripts:
  lock:
    lockingType: standard
    script: OP_ADD <var1> OP_EQUAL
  add:
    script: <1> <2>
    unlocks: lock
    passes: [three]
    fails: [four]
    estimate: three
  wrong_add:
    script: <1> <1>
    unlocks: lock
    passes: [four]
supported: [BCH_2023_05]
version: 0
`

func writeTemplate(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "template.yml")
	require.NoError(t, os.WriteFile(path, []byte(additionTemplate), 0644))
	return path
}

func runApp(args ...string) (string, error) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"scenario"}, args...))
	return out.String(), err
}

func TestCommands(t *testing.T) {
	path := writeTemplate(t)

	t.Run("list", func(t *testing.T) {
		out, err := runApp("--template", path, "list")
		require.NoError(t, err)

		var scenarios []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &scenarios))
		require.Len(t, scenarios, 2)
		require.Equal(t, "four", scenarios[0]["id"])
		require.Equal(t, "three", scenarios[1]["id"])
	})

	t.Run("defaults", func(t *testing.T) {
		out, err := runApp("-t", path, "defaults")
		require.NoError(t, err)
		require.Contains(t, out, `"currentBlockHeight": 2`)
		require.Contains(t, out, `"slot"`)
	})

	t.Run("generate", func(t *testing.T) {
		out, err := runApp("-t", path, "generate", "-s", "three", "-u", "add")
		require.NoError(t, err)
		require.Contains(t, out, `"lockingBytecode": "935387"`)
		require.Contains(t, out, `"unlockingBytecode": "5152"`)
		require.NotContains(t, out, "unlockingCompilation")

		out, err = runApp("-t", path, "generate", "-s", "three", "-u", "add", "--debug")
		require.NoError(t, err)
		require.Contains(t, out, "unlockingCompilation")
	})

	t.Run("verify", func(t *testing.T) {
		out, err := runApp("-t", path, "verify", "-s", "three", "-u", "add")
		require.NoError(t, err)
		require.Equal(t, "scenario \"three\" with unlocking script \"add\" verified\n", out)

		_, err = runApp("-t", path, "verify", "-s", "four", "-u", "add")
		require.Error(t, err)
	})

	t.Run("estimate", func(t *testing.T) {
		out, err := runApp("-t", path, "--fee-rate", "2", "estimate", "-s", "three", "-u", "add")
		require.NoError(t, err)
		require.JSONEq(t, `{"size": 65, "fee": 130}`, out)

		out, err = runApp("-t", path, "--fee-rate", "2", "estimate", "-u", "add")
		require.NoError(t, err)
		require.JSONEq(t, `{"size": 65, "fee": 130}`, out)
	})

	t.Run("test", func(t *testing.T) {
		out, err := runApp("-t", path, "--concurrency", "2", "test")
		require.EqualError(t, err, "1 of 3 scenario tests failed")

		var results []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &results))
		require.Len(t, results, 3)
		require.Contains(t, test.Description, "BCH-only opcodes")
	})
}

func TestMissingTemplate(t *testing.T) {
	t.Setenv("SCENARIO_TEMPLATE", "")

	_, err := runApp("list")
	require.EqualError(t, err, "missing template, use --template or SCENARIO_TEMPLATE")
}
