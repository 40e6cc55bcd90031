package scenario_test

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
	configuration *compiler.Configuration,
	debug bool,
) *compiler.CompilationResult {
	args := m.Called(scriptID, data, configuration, debug)

	var res *compiler.CompilationResult
	if a := args.Get(0); a != nil {
		res = a.(*compiler.CompilationResult)
	}
	return res
}

// callsFor returns the compilation data of every call compiling scriptID.
func (m *mockCompiler) callsFor(scriptID string) []compiler.CompilationData {
	data := make([]compiler.CompilationData, 0)
	for _, call := range m.Calls {
		if call.Arguments.String(0) == scriptID {
			data = append(data, call.Arguments.Get(1).(compiler.CompilationData))
		}
	}
	return data
}
