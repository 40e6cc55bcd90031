package hdkey

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

// DerivationPath is the internal representation of a hierarchical
// deterministic derivation path, relative to the node it is applied to.
type DerivationPath []uint32

// addressIndexPlaceholder is replaced by the address index when resolving a
// derivation path template like "m/0'/i".
const addressIndexPlaceholder = "i"

// ParseDerivationPath converts a derivation path string to the
// internal binary representation. Both "m" (private) and "M" (public) roots
// are accepted, the bare root yields an empty path.
func ParseDerivationPath(strPath string) (DerivationPath, error) {
	path := DerivationPath{}

	elems := strings.Split(strPath, "/")
	switch {
	case strings.TrimSpace(strPath) == "":
		return nil, ErrNullDerivationPath
	case containsEmptyString(elems):
		return nil, ErrMalformedDerivationPath
	}

	if root := strings.TrimSpace(elems[0]); root == "m" || root == "M" {
		elems = elems[1:]
	}

	// all remaining elems are relative, append one by one
	for _, elem := range elems {
		elem = strings.TrimSpace(elem)
		var value uint32

		if strings.HasSuffix(elem, "'") {
			value = hdkeychain.HardenedKeyStart
			elem = strings.TrimSpace(strings.TrimSuffix(elem, "'"))
		}

		// use big int for convertion
		bigval, ok := new(big.Int).SetString(elem, 0)
		if !ok {
			return nil, fmt.Errorf("invalid elem '%s' in path", elem)
		}

		max := math.MaxUint32 - value
		if bigval.Sign() < 0 || bigval.Cmp(big.NewInt(int64(max))) > 0 {
			if value == 0 {
				return nil, fmt.Errorf("elem %v must be in range [0, %d]", bigval, max)
			}
			return nil, fmt.Errorf("elem %v must be in hardened range [0, %d]", bigval, max)
		}
		value += uint32(bigval.Uint64())

		path = append(path, value)
	}

	return path, nil
}

// ResolveDerivationPath replaces every "i" component of the path template
// with index, then parses the result.
func ResolveDerivationPath(pathTemplate string, index uint32) (DerivationPath, error) {
	elems := strings.Split(pathTemplate, "/")
	for i, elem := range elems {
		trimmed := strings.TrimSpace(elem)
		hardened := strings.HasSuffix(trimmed, "'")
		if strings.TrimSpace(strings.TrimSuffix(trimmed, "'")) != addressIndexPlaceholder {
			continue
		}
		elems[i] = strconv.FormatUint(uint64(index), 10)
		if hardened {
			elems[i] += "'"
		}
	}
	return ParseDerivationPath(strings.Join(elems, "/"))
}

// IsHardened returns whether any component of the path is hardened.
func (path DerivationPath) IsHardened() bool {
	for _, component := range path {
		if component >= hdkeychain.HardenedKeyStart {
			return true
		}
	}
	return false
}

// String converts a binary derivation path to its canonical representation
func (path DerivationPath) String() string {
	result := "m"
	for _, component := range path {
		var hardened bool
		if component >= hdkeychain.HardenedKeyStart {
			component -= hdkeychain.HardenedKeyStart
			hardened = true
		}
		result = fmt.Sprintf("%s/%d", result, component)
		if hardened {
			result += "'"
		}
	}
	return result
}

func containsEmptyString(composedPath []string) bool {
	for _, s := range composedPath {
		if strings.TrimSpace(s) == "" {
			return true
		}
	}
	return false
}
