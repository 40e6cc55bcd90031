package application_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/template-scenarios/internal/core/application"
	"github.com/tdex-network/template-scenarios/pkg/cashasm"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/scenario"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

const additionTemplate = `{
	// var1 is the expected sum
	"entities": {
		"owner": {"variables": {"var1": {"type": "WalletData"}}}
	},
	"scenarios": {
		"three": {"name": "Three", "data": {"bytecode": {"var1": "0x03"}}},
		"four": {"extends": "three", "data": {"bytecode": {"var1": "0x04"}}},
		"broken": {"data": {"bytecode": {"var1": "OP_UNKNOWN_THING"}}}
	},
	"scripts": {
		"lock": {"lockingType": "standard", "script": "OP_ADD <var1> OP_EQUAL"},
		"add": {
			"script": "<1> <2>",
			"unlocks": "lock",
			"passes": ["three"],
			"fails": ["four"],
			"invalid": ["broken"],
			"estimate": "three"
		},
		"wrong_add": {
			"script": "<1> <1>",
			"unlocks": "lock",
			"passes": ["four"],
			"fails": ["broken"],
			"invalid": ["three"]
		},
	},
	"supported": ["BCH_2023_05"],
	"version": 0
}`

func newTestService(t *testing.T, concurrency int) application.ScenarioService {
	tpl, err := template.Parse([]byte(additionTemplate), template.FormatJSON)
	require.NoError(t, err)

	svc, err := application.NewScenarioService(
		tpl, cashasm.New(), concurrency, decimal.NewFromInt(1),
	)
	require.NoError(t, err)
	return svc
}

func TestFailingNewScenarioService(t *testing.T) {
	tpl, err := template.Parse([]byte(additionTemplate), template.FormatJSON)
	require.NoError(t, err)

	tests := []struct {
		name          string
		tpl           *template.Template
		concurrency   int
		feeRate       decimal.Decimal
		expectedError error
	}{
		{"null template", nil, 1, decimal.Zero, application.ErrNullTemplate},
		{"zero concurrency", tpl, 0, decimal.Zero, application.ErrInvalidConcurrency},
		{"negative fee rate", tpl, 1, decimal.NewFromInt(-1), application.ErrInvalidFeeRate},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := application.NewScenarioService(
				tt.tpl, cashasm.New(), tt.concurrency, tt.feeRate,
			)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}

	_, err = application.NewScenarioService(tpl, nil, 1, decimal.Zero)
	require.ErrorIs(t, err, application.ErrNullCompiler)
}

func TestListScenarios(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()

	require.Equal(t, []application.ScenarioInfo{
		{ID: "broken", Fails: []string{"wrong_add"}, Invalid: []string{"add"}},
		{ID: "four", Extends: "three", Passes: []string{"wrong_add"}, Fails: []string{"add"}},
		{ID: "three", Name: "Three", Passes: []string{"add"}, Invalid: []string{"wrong_add"}},
	}, svc.ListScenarios(ctx))

	require.Equal(t, []application.ScriptTest{
		{ScenarioID: "three", UnlockingScriptID: "add", Expect: application.ExpectPass},
		{ScenarioID: "four", UnlockingScriptID: "add", Expect: application.ExpectFail},
		{ScenarioID: "broken", UnlockingScriptID: "add", Expect: application.ExpectInvalid},
		{ScenarioID: "four", UnlockingScriptID: "wrong_add", Expect: application.ExpectPass},
		{ScenarioID: "broken", UnlockingScriptID: "wrong_add", Expect: application.ExpectFail},
		{ScenarioID: "three", UnlockingScriptID: "wrong_add", Expect: application.ExpectInvalid},
	}, svc.ListTests(ctx))
}

func TestDefaultScenario(t *testing.T) {
	svc := newTestService(t, 1)

	def, err := svc.DefaultScenario(context.Background())
	require.NoError(t, err)
	require.NotNil(t, def.Data)
	require.Equal(t, int64(2), *def.Data.CurrentBlockHeight)
	require.Equal(t, int64(1231469665), *def.Data.CurrentBlockTime)
	require.Len(t, def.SourceOutputs, 1)
	require.True(t, def.SourceOutputs[0].LockingBytecode.IsSlot())
	require.Len(t, def.Transaction.Inputs, 1)
	require.True(t, def.Transaction.Inputs[0].UnlockingBytecode.IsSlot())
}

func TestGenerateScenario(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()

	reply, err := svc.GenerateScenario(ctx, application.GenerateRequest{
		ScenarioID:        "three",
		UnlockingScriptID: "add",
	})
	require.NoError(t, err)
	require.Nil(t, reply.LockingCompilation)
	require.Equal(t, map[string]string{"var1": "03"}, reply.Scenario.Data.Bytecode)

	program := reply.Scenario.Program
	require.Equal(t, 0, program.InputIndex)
	require.Equal(t, "935387", program.SourceOutputs[0].LockingBytecode)
	require.Equal(t, "935387", program.Transaction.Outputs[0].LockingBytecode)
	require.Equal(t, "5152", program.Transaction.Inputs[0].UnlockingBytecode)
	require.Equal(t, uint32(2), program.Transaction.Version)

	reply, err = svc.GenerateScenario(ctx, application.GenerateRequest{
		ScenarioID:        "three",
		UnlockingScriptID: "add",
		Debug:             true,
	})
	require.NoError(t, err)
	require.Empty(t, reply.Err)
	require.True(t, reply.LockingCompilation.Success)
	require.Equal(t, "935387", reply.LockingCompilation.Bytecode)
	require.Equal(t, "5152", reply.UnlockingCompilation.Bytecode)
	require.Equal(t, []application.SampleView{
		{Range: "1:1-1:4", Source: "<1>", Bytecode: "51"},
		{Range: "1:5-1:8", Source: "<2>", Bytecode: "52"},
	}, reply.UnlockingCompilation.Samples)
}

func TestFailingGenerateScenario(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()
	req := application.GenerateRequest{
		ScenarioID:        "broken",
		UnlockingScriptID: "add",
	}
	expectedError := `Cannot generate scenario "broken". Compilation error while ` +
		`generating bytecode for "var1": [1, 1] Unknown opcode "OP_UNKNOWN_THING".`

	reply, err := svc.GenerateScenario(ctx, req)
	require.EqualError(t, err, expectedError)
	require.ErrorIs(t, err, scenario.ErrInvalidData)
	require.Nil(t, reply)

	req.Debug = true
	reply, err = svc.GenerateScenario(ctx, req)
	require.EqualError(t, err, expectedError)
	require.NotNil(t, reply)
	require.Equal(t, expectedError, reply.Err)
	require.Nil(t, reply.Scenario)
	require.Nil(t, reply.LockingCompilation)
	require.Nil(t, reply.UnlockingCompilation)
}

func TestVerifyScenario(t *testing.T) {
	svc := newTestService(t, 1)
	ctx := context.Background()

	err := svc.VerifyScenario(ctx, application.GenerateRequest{
		ScenarioID:        "three",
		UnlockingScriptID: "add",
	})
	require.NoError(t, err)

	err = svc.VerifyScenario(ctx, application.GenerateRequest{
		ScenarioID:        "four",
		UnlockingScriptID: "add",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), `scenario "four" with unlocking script "add" failed verification`)
}

func TestEstimateScenario(t *testing.T) {
	svc := newTestService(t, 1)

	estimation, err := svc.EstimateScenario(context.Background(), application.GenerateRequest{
		ScenarioID:        "three",
		UnlockingScriptID: "add",
	})
	require.NoError(t, err)
	require.Equal(t, &application.Estimation{Size: 65, Fee: 65}, estimation)

	estimation, err = svc.EstimateScenario(context.Background(), application.GenerateRequest{
		UnlockingScriptID: "add",
	})
	require.NoError(t, err)
	require.Equal(t, &application.Estimation{Size: 65, Fee: 65}, estimation)

	_, err = svc.EstimateScenario(context.Background(), application.GenerateRequest{
		UnlockingScriptID: "wrong_add",
	})
	require.ErrorIs(t, err, scenario.ErrCompilation)
}

func TestGenerateAll(t *testing.T) {
	for _, concurrency := range []int{1, 4} {
		svc := newTestService(t, concurrency)

		results, err := svc.GenerateAll(context.Background())
		require.NoError(t, err)
		require.Len(t, results, 6)

		passed := make(map[string]bool)
		for _, r := range results {
			passed[r.UnlockingScriptID+"/"+r.ScenarioID] = r.Passed
		}
		require.Equal(t, map[string]bool{
			"add/three":        true,
			"add/four":         true,
			"add/broken":       true,
			"wrong_add/four":   false,
			"wrong_add/broken": false,
			"wrong_add/three":  false,
		}, passed)

		require.Empty(t, results[0].Err)
		require.Contains(t, results[1].Err, "failed verification")
		require.Contains(t, results[2].Err, `Unknown opcode "OP_UNKNOWN_THING"`)
		require.Contains(t, results[3].Err, "failed verification")
		require.Contains(t, results[4].Err, `Unknown opcode "OP_UNKNOWN_THING"`)
		require.Empty(t, results[5].Err)
	}
}

func TestGenerateAllCanceled(t *testing.T) {
	svc := newTestService(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GenerateAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateScenarioDebugFailure(t *testing.T) {
	tpl, err := template.Parse([]byte(additionTemplate), template.FormatJSON)
	require.NoError(t, err)

	mc := &mockCompiler{}
	mc.On("GenerateBytecode", "lock", mock.Anything, mock.Anything, true).
		Return(compiler.NewFailure("boom"))

	svc, err := application.NewScenarioService(tpl, mc, 1, decimal.Zero)
	require.NoError(t, err)

	reply, err := svc.GenerateScenario(context.Background(), application.GenerateRequest{
		LockingScriptID: "lock",
		Debug:           true,
	})
	require.EqualError(
		t, err,
		"Cannot generate the default scenario: "+
			"Failed compilation of source output at index 0: boom "+
			"Failed compilation of transaction output at index 0: boom",
	)
	require.ErrorIs(t, err, scenario.ErrCompilation)
	require.False(t, reply.LockingCompilation.Success)
	require.Equal(t, []string{"[0, 0] boom"}, reply.LockingCompilation.Errors)
	require.Nil(t, reply.UnlockingCompilation)
	mc.AssertNumberOfCalls(t, "GenerateBytecode", 2)
}
