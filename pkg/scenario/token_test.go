package scenario_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/template-scenarios/pkg/scenario"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

func TestCompileValueSatoshis(t *testing.T) {
	tests := []struct {
		name     string
		value    *template.ValueSatoshis
		expected uint64
	}{
		{"default", nil, 0},
		{"number", &template.ValueSatoshis{Number: "10000"}, 10000},
		{"hex", &template.ValueSatoshis{Hex: "1027000000000000"}, 10000},
		{
			"max",
			&template.ValueSatoshis{Number: "18446744073709551615"},
			18446744073709551615,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			value, err := scenario.CompileValueSatoshis(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.expected, value)
		})
	}
}

func TestFailingCompileValueSatoshis(t *testing.T) {
	tests := []*template.ValueSatoshis{
		{Number: "-1"},
		{Number: "1.5"},
		{Number: "18446744073709551616"},
		{Hex: "10270000"},
		{Hex: "zz"},
	}

	for _, tt := range tests {
		value, err := scenario.CompileValueSatoshis(tt)
		require.Error(t, err)
		require.Zero(t, value)
	}
}

func TestCompileToken(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		token, err := scenario.CompileToken(nil)
		require.NoError(t, err)
		require.Nil(t, token)
	})

	t.Run("defaults", func(t *testing.T) {
		token, err := scenario.CompileToken(&template.TokenDefinition{
			NFT: &template.NFTDefinition{},
		})
		require.NoError(t, err)
		require.Zero(t, token.Amount.Sign())
		require.Len(t, token.Category, 32)
		require.Equal(t, byte(0x02), token.Category[31])
		require.Equal(t, "none", token.NFT.Capability)
		require.Equal(t, []byte{}, token.NFT.Commitment)
	})

	t.Run("amount beyond 64 bits", func(t *testing.T) {
		amount := template.Amount("340282366920938463463374607431768211456")
		token, err := scenario.CompileToken(&template.TokenDefinition{
			Amount: &amount,
		})
		require.NoError(t, err)
		require.Equal(t, "340282366920938463463374607431768211456", token.Amount.String())
		require.Nil(t, token.NFT)
	})
}

func TestFailingCompileToken(t *testing.T) {
	negative := template.Amount("-1")
	fraction := template.Amount("0.5")
	shortCategory := "00"
	badHex := "zz"

	tests := []struct {
		name  string
		token *template.TokenDefinition
	}{
		{"negative amount", &template.TokenDefinition{Amount: &negative}},
		{"fractional amount", &template.TokenDefinition{Amount: &fraction}},
		{"short category", &template.TokenDefinition{Category: &shortCategory}},
		{"invalid category", &template.TokenDefinition{Category: &badHex}},
		{
			"invalid capability",
			&template.TokenDefinition{
				NFT: &template.NFTDefinition{Capability: "burning"},
			},
		},
		{
			"invalid commitment",
			&template.TokenDefinition{
				NFT: &template.NFTDefinition{Commitment: &badHex},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			token, err := scenario.CompileToken(tt.token)
			require.Error(t, err)
			require.Nil(t, token)
		})
	}
}
