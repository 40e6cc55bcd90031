package template_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tdex-network/template-scenarios/pkg/template"
)

const jsoncTemplate = `{
	// single-signature vault
	"name": "Vault",
	"entities": {
		"owner": {
			"variables": {
				"key": {"type": "HdKey", "addressOffset": 1},
				"nonce": {"type": "AddressData"},
			},
		},
	},
	"scenarios": {
		"after_timeout": {
			"extends": "before_timeout",
			"data": {"currentBlockHeight": 1000},
		},
		"before_timeout": {
			"transaction": {"locktime": 500},
		},
	},
	"scripts": {
		"lock": {"lockingType": "p2sh20", "script": "<key.public_key> OP_CHECKSIG"},
		/* unlocks lock */
		"unlock": {
			"script": "<key.signature.all_outputs>",
			"unlocks": "lock",
			"passes": ["before_timeout"],
			"fails": ["after_timeout"],
			"estimate": "before_timeout",
		},
	},
	"supported": ["BCH_2023_05"],
	"version": 0,
}`

const yamlTemplate = `
name: Vault
entities:
  owner:
    variables:
      key:
        type: HdKey
        addressOffset: 1
      nonce:
        type: AddressData
scenarios:
  after_timeout:
    extends: before_timeout
    data:
      currentBlockHeight: 1000
  before_timeout:
    transaction:
      locktime: 500
scripts:
  lock:
    lockingType: p2sh20
    script: <key.public_key> OP_CHECKSIG
  unlock:
    script: <key.signature.all_outputs>
    unlocks: lock
    passes: [before_timeout]
    fails: [after_timeout]
    estimate: before_timeout
supported: [BCH_2023_05]
version: 0
`

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format template.Format
	}{
		{"jsonc", jsoncTemplate, template.FormatJSON},
		{"yaml", yamlTemplate, template.FormatYAML},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := template.Parse([]byte(tt.data), tt.format)
			require.NoError(t, err)

			require.Equal(t, "Vault", tpl.Name)
			require.Len(t, tpl.Entities["owner"].Variables, 2)

			key := tpl.Entities["owner"].Variables["key"]
			require.Equal(t, template.VariableHdKey, key.Type)
			require.Equal(t, uint32(1), key.Offset())
			require.Equal(t, template.DefaultHdKeyPrivateDerivationPath, key.PrivatePath())

			after := tpl.Scenarios["after_timeout"]
			require.Equal(t, "before_timeout", after.Extends)
			require.Equal(t, int64(1000), *after.Data.CurrentBlockHeight)
			require.Equal(t, uint32(500), *tpl.Scenarios["before_timeout"].Transaction.Locktime)

			unlock := tpl.Scripts["unlock"]
			require.True(t, unlock.IsUnlocking())
			require.Equal(t, "lock", unlock.Unlocks)
			require.Equal(t, []string{"before_timeout"}, unlock.Passes)
			require.Equal(t, []string{"after_timeout"}, unlock.Fails)
			require.Empty(t, unlock.Invalid)
			require.Equal(t, "before_timeout", unlock.Estimate)
			require.False(t, tpl.Scripts["lock"].IsUnlocking())
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "vault.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(jsoncTemplate), 0644))
	yamlPath := filepath.Join(dir, "vault.yml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlTemplate), 0644))

	fromJSON, err := template.Load(jsonPath)
	require.NoError(t, err)
	fromYAML, err := template.Load(yamlPath)
	require.NoError(t, err)
	require.Equal(t, fromJSON, fromYAML)

	_, err = template.Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
}

func TestFailingParse(t *testing.T) {
	tests := []struct {
		name          string
		data          string
		expectedError error
	}{
		{
			name:          "empty",
			data:          "  ",
			expectedError: template.ErrNullTemplate,
		},
		{
			name:          "unsupported version",
			data:          `{"scripts": {"a": {"script": ""}}, "version": 1}`,
			expectedError: template.ErrUnsupportedVersion,
		},
		{
			name:          "no scripts",
			data:          `{"scripts": {}, "version": 0}`,
			expectedError: template.ErrMissingScripts,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := template.Parse([]byte(tt.data), template.FormatJSON)
			require.Nil(t, tpl)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestFailingValidate(t *testing.T) {
	tests := []struct {
		name          string
		data          string
		expectedError string
	}{
		{
			name: "unknown variable type",
			data: `{
				"entities": {"e": {"variables": {"v": {"type": "Secret"}}}},
				"scripts": {"a": {"script": ""}}
			}`,
			expectedError: `variable "v" of entity "e" has unknown type "Secret"`,
		},
		{
			name: "unknown unlocked script",
			data: `{
				"scripts": {"a": {"script": "", "unlocks": "b"}}
			}`,
			expectedError: `script "a" unlocks "b", which is not defined in this template`,
		},
		{
			name: "unknown extended scenario",
			data: `{
				"scenarios": {"a": {"extends": "missing"}, "b": {"extends": "a"}},
				"scripts": {"a": {"script": ""}}
			}`,
			expectedError: `If defined, each scenario ID referenced by another scenario's "extends" property must exist. Unknown scenario IDs: "missing".`,
		},
		{
			name: "unknown referenced scenarios",
			data: `{
				"scenarios": {"ok": {}},
				"scripts": {
					"lock": {"script": ""},
					"unlock": {
						"script": "",
						"unlocks": "lock",
						"passes": ["ok", "typo"],
						"fails": ["typo"],
						"invalid": ["gone"],
						"estimate": "absent"
					}
				}
			}`,
			expectedError: `Only known scenarios may be referenced by scripts. The following scenario IDs are not provided in this template: "absent", "gone", "typo".`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := template.Parse([]byte(tt.data), template.FormatJSON)
			require.EqualError(t, err, tt.expectedError)
		})
	}
}

func TestFailingValidateUnknownScenarios(t *testing.T) {
	tests := []struct {
		name          string
		data          string
		expectedError error
	}{
		{
			name: "extends",
			data: `{
				"scenarios": {"a": {"extends": "b"}},
				"scripts": {"lock": {"script": ""}}
			}`,
			expectedError: template.ErrUnknownExtendedScenario,
		},
		{
			name: "fails",
			data: `{
				"scripts": {
					"lock": {"script": ""},
					"unlock": {"script": "", "unlocks": "lock", "fails": ["typo"]}
				}
			}`,
			expectedError: template.ErrUnknownScenarioReference,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := template.Parse([]byte(tt.data), template.FormatJSON)
			require.Nil(t, tpl)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}
