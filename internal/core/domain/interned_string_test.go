package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/derive/internal/core/domain"
	"gopkg.in/yaml.v3"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("price")
	is2 := domain.NewInternedString("price")

	if is1.Value() != is2.Value() {
		t.Errorf("Expected handles to be equal for identical strings, got %v and %v", is1.Value(), is2.Value())
	}
	if is1.String() != "price" {
		t.Errorf("Expected String() to return %q, got %q", "price", is1.String())
	}

	var zero domain.InternedString
	assert.Empty(t, zero.String())
}

func TestInternedString_TextRoundTripInMap(t *testing.T) {
	// Interned names are used as map keys in catalog dumps.
	original := map[domain.InternedString]int{
		domain.NewInternedString("a"): 1,
	}

	data, err := yaml.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))

	decoded := map[domain.InternedString]int{}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, 1, decoded[domain.NewInternedString("a")])
}

func TestNewInternedStrings(t *testing.T) {
	names := []string{"a", "b", "a"}

	interned := domain.NewInternedStrings(names)
	require.Len(t, interned, 3)
	assert.Equal(t, interned[0].Value(), interned[2].Value())
	assert.Equal(t, "b", interned[1].String())

	assert.Empty(t, domain.NewInternedStrings(nil))
}
