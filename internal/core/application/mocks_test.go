package application_test

import (
	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
)

type mockCompiler struct {
	mock.Mock
}

func (m *mockCompiler) GenerateBytecode(
	scriptID string,
	data compiler.CompilationData,
	cfg *compiler.Configuration,
	debug bool,
) *compiler.CompilationResult {
	args := m.Called(scriptID, data, cfg, debug)

	var res *compiler.CompilationResult
	if a := args.Get(0); a != nil {
		res = a.(*compiler.CompilationResult)
	}
	return res
}
