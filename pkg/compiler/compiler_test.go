package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

func testTemplate() *template.Template {
	return &template.Template{
		Entities: map[string]template.Entity{
			"owner": {
				Variables: map[string]template.Variable{
					"key":   {Type: template.VariableKey},
					"nonce": {Type: template.VariableAddressData},
				},
			},
			"cosigner": {
				Variables: map[string]template.Variable{
					"hd": {Type: template.VariableHdKey},
				},
			},
		},
		Scenarios: map[string]template.ScenarioDefinition{
			"a": {Name: "A"},
		},
		Scripts: map[string]template.Script{
			"lock":   {Script: "OP_1", LockingType: "standard"},
			"unlock": {Script: "OP_2", Unlocks: "lock"},
			"util":   {Script: "OP_3"},
		},
	}
}

func TestNewConfiguration(t *testing.T) {
	cfg := compiler.NewConfiguration(testTemplate())

	require.Equal(t, map[string]string{
		"key":   "owner",
		"nonce": "owner",
		"hd":    "cosigner",
	}, cfg.EntityOwnership)
	require.Len(t, cfg.Variables, 3)
	require.Equal(t, template.VariableHdKey, cfg.Variables["hd"].Type)
	require.Equal(t, map[string]string{
		"lock":   "OP_1",
		"unlock": "OP_2",
		"util":   "OP_3",
	}, cfg.Scripts)
	require.Equal(t, map[string]string{"unlock": "lock"}, cfg.UnlockingScripts)
	require.Equal(t, map[string]string{"lock": "standard"}, cfg.LockingScriptTypes)
	require.Contains(t, cfg.Scenarios, "a")
	require.True(t, cfg.HasHdKeys())
	require.Nil(t, cfg.Sha256)
	require.Nil(t, cfg.Sha512)
}

func TestWithScripts(t *testing.T) {
	cfg := compiler.NewConfiguration(testTemplate())

	scratch := cfg.WithScripts(map[string]string{
		"util":        "OP_4",
		"_scenario.x": "<1>",
	})

	require.Equal(t, "OP_4", scratch.Scripts["util"])
	require.Equal(t, "<1>", scratch.Scripts["_scenario.x"])
	require.Equal(t, "OP_1", scratch.Scripts["lock"])

	require.Equal(t, "OP_3", cfg.Scripts["util"])
	require.NotContains(t, cfg.Scripts, "_scenario.x")
	require.Equal(t, cfg.UnlockingScripts, scratch.UnlockingScripts)
}

func TestHasHdKeys(t *testing.T) {
	tpl := testTemplate()
	delete(tpl.Entities, "cosigner")
	require.False(t, compiler.NewConfiguration(tpl).HasHdKeys())
}

func TestStringifyErrors(t *testing.T) {
	errs := []compiler.CompilationError{
		{
			Message: `Unknown identifier "a".`,
			Range:   compiler.Range{StartLine: 1, StartColumn: 3, EndLine: 1, EndColumn: 4},
		},
		{
			Message: "Unterminated push.",
			Range:   compiler.Range{StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 2},
		},
	}

	require.Equal(
		t,
		`[1, 3] Unknown identifier "a".; [2, 1] Unterminated push.`,
		compiler.StringifyErrors(errs),
	)
	require.Empty(t, compiler.StringifyErrors(nil))
}

func TestCompilerFunc(t *testing.T) {
	var called string
	c := compiler.CompilerFunc(func(
		scriptID string, _ compiler.CompilationData, _ *compiler.Configuration, _ bool,
	) *compiler.CompilationResult {
		called = scriptID
		return compiler.NewSuccess([]byte{0x51})
	})

	res := c.GenerateBytecode("lock", compiler.CompilationData{}, nil, false)
	require.Equal(t, "lock", called)
	require.True(t, res.Success)
	require.Equal(t, []byte{0x51}, res.Bytecode)

	failure := compiler.NewFailure("script %q failed", "lock")
	require.False(t, failure.Success)
	require.Equal(t, `script "lock" failed`, failure.Errors[0].Error())
}
