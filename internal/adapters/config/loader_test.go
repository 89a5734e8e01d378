package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/derive/internal/adapters/config"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return config.NewLoader(log)
}

func TestLoadCatalog_Success(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
version: "1"
arguments:
  d:
    type: int
    expression: $c * 10
    cacheable: false
  c:
    type: Integer
    expression: $a + $b
    dependsOn: [a, b]
  a:
    type: int
  p:
    type: double
    async: true
`)

	descs, err := newLoader(t).LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, descs, 4)

	assert.Equal(t, []string{"a", "c", "d", "p"}, []string{descs[0].Name, descs[1].Name, descs[2].Name, descs[3].Name})

	assert.Equal(t, domain.ArgumentDescriptor{Name: "a", Type: "int", Cacheable: true}, descs[0])
	assert.Equal(t, domain.ArgumentDescriptor{
		Name:       "c",
		Type:       "Integer",
		Cacheable:  true,
		Expression: "$a + $b",
		DependsOn:  []string{"a", "b"},
	}, descs[1])
	assert.False(t, descs[2].Cacheable)
	assert.True(t, descs[3].Async)
}

func TestLoadCatalog_UnsupportedVersion(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
version: "2"
arguments: {}
`)

	_, err := newLoader(t).LoadCatalog(path)
	require.ErrorIs(t, err, config.ErrUnsupportedVersion)

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	assert.Equal(t, "2", zErr.Metadata()["version"])
}

func TestLoadCatalog_UnknownField(t *testing.T) {
	path := writeFile(t, "catalog.yaml", `
arguments:
  a:
    type: int
    defualt: 3
`)

	_, err := newLoader(t).LoadCatalog(path)
	require.Error(t, err)
}

func TestLoadCatalog_Empty(t *testing.T) {
	descs, err := config.ParseCatalog(nil)
	require.NoError(t, err)
	assert.Empty(t, descs)
}

func TestLoadCatalog_MissingFile(t *testing.T) {
	_, err := newLoader(t).LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInputs(t *testing.T) {
	path := writeFile(t, "inputs.yaml", `
a: 1
b: 8
ratio: 0.5
whole: 1.0
name: alice
quoted: "42"
flag: true
`)

	inputs, err := newLoader(t).LoadInputs(path)
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.Value{
		"a":      domain.Int(1),
		"b":      domain.Int(8),
		"ratio":  domain.Float(0.5),
		"whole":  domain.Float(1),
		"name":   domain.String("alice"),
		"quoted": domain.String("42"),
		"flag":   domain.Bool(true),
	}, inputs)
}

func TestLoadInputs_NonScalar(t *testing.T) {
	path := writeFile(t, "inputs.yaml", `
list: [1, 2]
`)

	_, err := newLoader(t).LoadInputs(path)
	require.ErrorIs(t, err, config.ErrInvalidInput)
}

func TestParseValue(t *testing.T) {
	tests := map[string]domain.Value{
		"1":       domain.Int(1),
		"-3":      domain.Int(-3),
		"2.5":     domain.Float(2.5),
		"true":    domain.Bool(true),
		"hello":   domain.String("hello"),
		`"7"`:     domain.String("7"),
		"":        domain.String(""),
		"a b c":   domain.String("a b c"),
		"1.0e3":   domain.Float(1000),
		"'false'": domain.String("false"),
	}

	for in, want := range tests {
		got, err := config.ParseValue(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%q: want %v (%s), got %v (%s)", in, want, want.Kind(), got, got.Kind())
	}

	_, err := config.ParseValue("null")
	require.ErrorIs(t, err, config.ErrInvalidInput)
}

func TestParseValue_NaNIsRejected(t *testing.T) {
	for _, in := range []string{".nan", ".NaN"} {
		_, err := config.ParseValue(in)
		require.ErrorIs(t, err, config.ErrInvalidInput, in)
	}

	path := writeFile(t, "inputs.yaml", `
ratio: .nan
`)
	_, err := newLoader(t).LoadInputs(path)
	require.ErrorIs(t, err, config.ErrInvalidInput)
}
