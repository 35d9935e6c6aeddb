package compiler_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exalt-lang/exalt/internal/compiler"
	"github.com/exalt-lang/exalt/internal/compiler/passes"
)

func TestCompileUnit(t *testing.T) {
	src := `{
		"name": "Calc",
		"funcs": [{
			"name": "add",
			"public": true,
			"args": [{"name": "a", "id": 1, "type": "Int"}, {"name": "b", "id": 2, "type": "Int"}],
			"ret": "Int",
			"body": {
				"kind": "binop", "op": "+", "type": "Int",
				"l": {"kind": "local", "name": "a", "id": 1, "type": "Int"},
				"r": {"kind": "local", "name": "b", "id": 2, "type": "Int"}
			}
		}]
	}`
	out, err := compiler.New(nil).Compile([]byte(src))
	require.NoError(t, err)

	want := `defmodule Calc do
  def add(a, b) do
    a + b
  end
end
`
	assert.Equal(t, want, out)
}

func TestCompileUnderscoresUnusedBinding(t *testing.T) {
	src := `{
		"name": "Demo",
		"funcs": [{
			"name": "run",
			"public": true,
			"body": {"kind": "block", "list": [
				{"kind": "var", "name": "unused", "id": 1,
					"init": {"kind": "const", "const_kind": "int", "int": 1}},
				{"kind": "const", "const_kind": "int", "int": 2}
			]}
		}]
	}`
	out, err := compiler.New(nil).Compile([]byte(src))
	require.NoError(t, err)
	assert.Contains(t, out, "_unused = 1")
}

func TestCompileIteratorLoopRenamesKeyValueAccesses(t *testing.T) {
	src := `{
		"name": "Demo",
		"funcs": [{
			"name": "run",
			"public": true,
			"body": {"kind": "block", "list": [
				{"kind": "var", "name": "it", "id": 1, "init": {"kind": "call",
					"target": {"kind": "field", "object": {"kind": "ident", "name": "pairs"}, "name": "keyValueIterator"}}},
				{"kind": "while",
					"cond": {"kind": "call",
						"target": {"kind": "field", "object": {"kind": "local", "name": "it", "id": 1}, "name": "hasNext"}},
					"body": {"kind": "block", "list": [
						{"kind": "var", "name": "keyValue", "id": 2, "init": {"kind": "call",
							"target": {"kind": "field", "object": {"kind": "local", "name": "it", "id": 1}, "name": "next"}}},
						{"kind": "call", "target": {"kind": "ident", "name": "emit"}, "args": [
							{"kind": "field", "object": {"kind": "local", "name": "keyValue", "id": 2}, "name": "key"},
							{"kind": "field", "object": {"kind": "local", "name": "keyValue", "id": 2}, "name": "value"}
						]}
					]}}
			]}
		}]
	}`
	out, err := compiler.New(nil).Compile([]byte(src))
	require.NoError(t, err)

	assert.Contains(t, out, "{key_value_key, key_value_value} <- pairs")
	assert.Contains(t, out, "emit(key_value_key, key_value_value)")
	assert.NotContains(t, out, "key_value.")
	assert.NotContains(t, out, "keyValue")
	assert.NotContains(t, out, "_key_value", "pattern variables are read, not hygiene targets")
}

func TestCompileReportsInputError(t *testing.T) {
	_, err := compiler.New(nil).Compile([]byte(`{not json`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[InputError]")
}

func TestCompileWithDisabledPass(t *testing.T) {
	src := `{
		"name": "Demo",
		"funcs": [{
			"name": "run",
			"public": true,
			"body": {"kind": "block", "list": [
				{"kind": "var", "name": "unused", "id": 1,
					"init": {"kind": "const", "const_kind": "int", "int": 1}},
				{"kind": "const", "const_kind": "int", "int": 2}
			]}
		}]
	}`
	cfg := &compiler.Config{Passes: passes.Config{passes.UnderscoreHygiene: false}}
	out, err := compiler.New(cfg).Compile([]byte(src))
	require.NoError(t, err)
	assert.Contains(t, out, "unused = 1")
	assert.NotContains(t, out, "_unused")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exalt.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, "passes:\n  drop-nil-init: false\n  inject-imports: true\n")
	cfg, err := compiler.LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Passes.Enabled(passes.DropNilInit))
	assert.True(t, cfg.Passes.Enabled(passes.InjectImports))
	assert.True(t, cfg.Passes.Enabled(passes.ResolveLocals), "absent names stay enabled")
}

func TestLoadConfigRejectsUnknownPass(t *testing.T) {
	path := writeConfig(t, "passes:\n  drop-nil-inot: false\n")
	_, err := compiler.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown pass "drop-nil-inot"`)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := compiler.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "passes: [not, a, map]\n")
	_, err := compiler.LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
