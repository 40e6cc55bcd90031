package scenario

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/template-scenarios/pkg/compiler"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

const (
	valueSatoshisSize = 8
	tokenCategorySize = 32
)

var nftCapabilities = map[string]bool{
	"none":    true,
	"mutable": true,
	"minting": true,
}

// CompileValueSatoshis coerces an output value. A nil value defaults to
// DefaultValueSatoshis, the hex form must encode 8 little-endian bytes.
func CompileValueSatoshis(value *template.ValueSatoshis) (uint64, error) {
	if value == nil {
		return DefaultValueSatoshis, nil
	}

	if value.IsHex() {
		b, err := hex.DecodeString(value.Hex)
		if err != nil {
			return 0, fmt.Errorf("valueSatoshis is not valid hex: %s", err)
		}
		if len(b) != valueSatoshisSize {
			return 0, fmt.Errorf(
				"valueSatoshis must be %d bytes when hex-encoded, got %d",
				valueSatoshisSize, len(b),
			)
		}
		return binary.LittleEndian.Uint64(b), nil
	}

	amount, err := parseInteger(value.Number)
	if err != nil {
		return 0, fmt.Errorf("invalid valueSatoshis: %s", err)
	}
	bi := amount.BigInt()
	if !bi.IsUint64() {
		return 0, fmt.Errorf("valueSatoshis %s is out of range", value.Number)
	}
	return bi.Uint64(), nil
}

// CompileToken coerces the token of an output, nil if def is nil. Missing
// fields take the token defaults.
func CompileToken(def *template.TokenDefinition) (*compiler.Token, error) {
	if def == nil {
		return nil, nil
	}

	amount := decimal.Zero
	if def.Amount != nil {
		var err error
		if amount, err = parseInteger(string(*def.Amount)); err != nil {
			return nil, fmt.Errorf("invalid token amount: %s", err)
		}
	}

	categoryHex := DefaultTokenCategory
	if def.Category != nil {
		categoryHex = *def.Category
	}
	category, err := hex.DecodeString(categoryHex)
	if err != nil {
		return nil, fmt.Errorf("token category is not valid hex: %s", err)
	}
	if len(category) != tokenCategorySize {
		return nil, fmt.Errorf(
			"token category must be %d bytes, got %d", tokenCategorySize, len(category),
		)
	}

	token := &compiler.Token{Amount: amount.BigInt(), Category: category}
	if def.NFT == nil {
		return token, nil
	}

	capability := DefaultNFTCapability
	if def.NFT.Capability != "" {
		capability = def.NFT.Capability
	}
	if !nftCapabilities[capability] {
		return nil, fmt.Errorf(
			"nft capability must be one of none, mutable or minting, got %q",
			capability,
		)
	}

	commitment := []byte{}
	if def.NFT.Commitment != nil {
		if commitment, err = hex.DecodeString(*def.NFT.Commitment); err != nil {
			return nil, fmt.Errorf("nft commitment is not valid hex: %s", err)
		}
	}

	token.NFT = &compiler.NFT{Capability: capability, Commitment: commitment}
	return token, nil
}

func parseInteger(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsInteger() {
		return decimal.Zero, fmt.Errorf("%s is not an integer", str)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", str)
	}
	return d, nil
}
