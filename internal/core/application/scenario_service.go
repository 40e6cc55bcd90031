package application

import (
	"context"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/btcsuite/btcd/txscript"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/mathutil"
	"github.com/tdex-network/template-scenarios/pkg/scenario"
	"github.com/tdex-network/template-scenarios/pkg/template"
	"github.com/tdex-network/template-scenarios/pkg/transactionutil"
	"golang.org/x/sync/errgroup"
)

type ScenarioService interface {
	ListScenarios(ctx context.Context) []ScenarioInfo
	ListTests(ctx context.Context) []ScriptTest
	DefaultScenario(ctx context.Context) (*template.ScenarioDefinition, error)
	GenerateScenario(ctx context.Context, req GenerateRequest) (*GenerateReply, error)
	GenerateAll(ctx context.Context) ([]TestResult, error)
	VerifyScenario(ctx context.Context, req GenerateRequest) error
	EstimateScenario(ctx context.Context, req GenerateRequest) (*Estimation, error)
}

type scenarioService struct {
	tpl         *template.Template
	cfg         *compiler.Configuration
	compiler    compiler.Compiler
	concurrency int
	feeRate     decimal.Decimal
	verifyFlags txscript.ScriptFlags
}

func NewScenarioService(
	tpl *template.Template,
	bytecodeCompiler compiler.Compiler,
	concurrency int,
	feeRate decimal.Decimal,
) (ScenarioService, error) {
	if tpl == nil {
		return nil, ErrNullTemplate
	}
	if bytecodeCompiler == nil {
		return nil, ErrNullCompiler
	}
	if concurrency <= 0 {
		return nil, ErrInvalidConcurrency
	}
	if feeRate.IsNegative() {
		return nil, ErrInvalidFeeRate
	}

	cfg := compiler.NewConfiguration(tpl)
	cfg.Sha256 = sha256.New
	cfg.Sha512 = sha512.New

	return &scenarioService{
		tpl:         tpl,
		cfg:         cfg,
		compiler:    bytecodeCompiler,
		concurrency: concurrency,
		feeRate:     feeRate,
		verifyFlags: transactionutil.DefaultVerifyFlags,
	}, nil
}

func (s *scenarioService) ListScenarios(_ context.Context) []ScenarioInfo {
	tested := map[Expectation]map[string][]string{
		ExpectPass:    make(map[string][]string),
		ExpectFail:    make(map[string][]string),
		ExpectInvalid: make(map[string][]string),
	}
	for _, test := range s.ListTests(context.Background()) {
		byScenario := tested[test.Expect]
		byScenario[test.ScenarioID] = append(
			byScenario[test.ScenarioID], test.UnlockingScriptID,
		)
	}

	ids := make([]string, 0, len(s.tpl.Scenarios))
	for id := range s.tpl.Scenarios {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	infos := make([]ScenarioInfo, 0, len(ids))
	for _, id := range ids {
		def := s.tpl.Scenarios[id]
		infos = append(infos, ScenarioInfo{
			ID:          id,
			Name:        def.Name,
			Description: def.Description,
			Extends:     def.Extends,
			Passes:      tested[ExpectPass][id],
			Fails:       tested[ExpectFail][id],
			Invalid:     tested[ExpectInvalid][id],
		})
	}
	return infos
}

// ListTests returns the passes/fails/invalid matrix of the unlocking scripts
// of the template, sorted by script.
func (s *scenarioService) ListTests(_ context.Context) []ScriptTest {
	scriptIDs := make([]string, 0, len(s.tpl.Scripts))
	for id, script := range s.tpl.Scripts {
		if script.IsUnlocking() {
			scriptIDs = append(scriptIDs, id)
		}
	}
	sort.Strings(scriptIDs)

	tests := make([]ScriptTest, 0)
	for _, scriptID := range scriptIDs {
		script := s.tpl.Scripts[scriptID]
		for _, group := range []struct {
			expect    Expectation
			scenarios []string
		}{
			{ExpectPass, script.Passes},
			{ExpectFail, script.Fails},
			{ExpectInvalid, script.Invalid},
		} {
			for _, scenarioID := range group.scenarios {
				tests = append(tests, ScriptTest{
					ScenarioID:        scenarioID,
					UnlockingScriptID: scriptID,
					Expect:            group.expect,
				})
			}
		}
	}
	return tests
}

func (s *scenarioService) DefaultScenario(
	_ context.Context,
) (*template.ScenarioDefinition, error) {
	def, err := scenario.GenerateDefaultDefinition(s.cfg)
	if err != nil {
		return nil, err
	}
	definition := def.Definition()
	return &definition, nil
}

// GenerateScenario generates the requested scenario. In debug mode the reply
// is returned along with the generation error, if any, and holds the
// compilations of the scripts under test.
func (s *scenarioService) GenerateScenario(
	_ context.Context, req GenerateRequest,
) (*GenerateReply, error) {
	log.Debugf("generating %s", req)

	opts := s.opts(req)
	if !req.Debug {
		result, err := scenario.Generate(opts)
		if err != nil {
			return nil, err
		}
		return &GenerateReply{Scenario: newScenarioView(result)}, nil
	}

	result := scenario.GenerateDebug(opts)
	reply := &GenerateReply{
		Scenario:             newScenarioView(result.Scenario),
		LockingCompilation:   newCompilationView(result.LockingCompilation),
		UnlockingCompilation: newCompilationView(result.UnlockingCompilation),
	}
	if result.Err != nil {
		reply.Err = result.Err.Error()
	}
	return reply, result.Err
}

func (s *scenarioService) VerifyScenario(
	_ context.Context, req GenerateRequest,
) error {
	result, err := scenario.Generate(s.opts(req))
	if err != nil {
		return err
	}
	if err := transactionutil.Verify(result.Program, s.verifyFlags); err != nil {
		return fmt.Errorf("%s failed verification: %w", req, err)
	}
	return nil
}

// EstimateScenario estimates the transaction of the requested scenario. If
// none is given, the estimate scenario of the unlocking script is used.
func (s *scenarioService) EstimateScenario(
	_ context.Context, req GenerateRequest,
) (*Estimation, error) {
	if req.ScenarioID == "" && req.UnlockingScriptID != "" {
		req.ScenarioID = s.tpl.Scripts[req.UnlockingScriptID].Estimate
	}
	result, err := scenario.Generate(s.opts(req))
	if err != nil {
		return nil, err
	}
	size, err := transactionutil.EstimateSize(result.Program.Transaction)
	if err != nil {
		return nil, err
	}
	return &Estimation{
		Size: size,
		Fee:  mathutil.FeeForSize(size, s.feeRate),
	}, nil
}

// GenerateAll runs every test of the passes/fails/invalid matrix, at most
// s.concurrency at a time.
func (s *scenarioService) GenerateAll(ctx context.Context) ([]TestResult, error) {
	tests := s.ListTests(ctx)
	results := make([]TestResult, len(tests))
	var failed int32

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, test := range tests {
		i, test := i, test
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			result := s.runTest(test)
			results[i] = result
			if !result.Passed {
				atomic.AddInt32(&failed, 1)
				log.Warnf(
					"%s: expected to be %s, got %q",
					test.request(), test.Expect, result.Err,
				)
				return nil
			}
			log.Debugf("%s: ok", test.request())
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Infof("%d of %d scenario tests passed", len(tests)-int(failed), len(tests))
	return results, nil
}

// runTest generates and verifies the scenario of test. Invalid tests pass
// only if generation fails, the others only if generation succeeds and
// verification matches the expectation.
func (s *scenarioService) runTest(test ScriptTest) TestResult {
	result := TestResult{ScriptTest: test}

	generated, err := scenario.Generate(s.opts(test.request()))
	if err != nil {
		result.Passed = test.Expect == ExpectInvalid
		result.Err = err.Error()
		return result
	}
	if test.Expect == ExpectInvalid {
		return result
	}

	err = transactionutil.Verify(generated.Program, s.verifyFlags)
	result.Passed = (err == nil) == (test.Expect == ExpectPass)
	if err != nil {
		result.Err = fmt.Sprintf("%s failed verification: %s", test.request(), err)
	}
	return result
}

func (s *scenarioService) opts(req GenerateRequest) scenario.GenerateOpts {
	opts := req.opts()
	opts.Configuration = s.cfg
	opts.Compiler = s.compiler
	return opts
}
