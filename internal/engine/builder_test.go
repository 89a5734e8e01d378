package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports/mocks"
	"go.trai.ch/derive/internal/engine"
	"go.uber.org/mock/gomock"
)

func TestBuilder_Build(t *testing.T) {
	reg := build(t,
		cached(derived("d", "int", "$c * 10")),
		cached(derived("c", "int", "$a + $b")),
		input("a", "int"),
		input("b", "long"),
	)

	assert.Equal(t, []string{"a", "b", "c", "d"}, reg.Names())
	assert.True(t, reg.Sealed())

	c, ok := reg.Lookup("c")
	require.True(t, ok)
	assert.Equal(t, engine.SourceDerived, c.Source())
	assert.True(t, c.Cacheable())
	assert.Equal(t, []string{"a", "b"}, c.Dependencies())
	assert.Equal(t, "$a + $b", c.Expression().Source())

	b, ok := reg.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, engine.SourceInput, b.Source())
	assert.Equal(t, domain.KindInt, b.Kind())
	assert.False(t, b.Cacheable())
	assert.Nil(t, b.Expression())
}

func TestBuilder_AllOrNothing(t *testing.T) {
	reg, err := engine.NewBuilder(nil).Build([]domain.ArgumentDescriptor{
		input("a", "int"),
		input("a", "int"),
		input("t", "decimal"),
		derived("u", "int", "$missing + 1"),
		async(input("p", "int")),
		derived("s", "int", "$p + 1"),
		derived("bad", "int", "$a +"),
		{Type: "int"},
		input("ok", "int"),
	})

	require.Error(t, err)
	assert.Nil(t, reg)

	for _, want := range []error{
		domain.ErrDuplicateArgument,
		domain.ErrUnknownType,
		domain.ErrUnresolvedReference,
		domain.ErrAsyncMismatch,
		domain.ErrInvalidExpression,
		domain.ErrInvalidArgumentName,
	} {
		assert.ErrorIs(t, err, want)
	}
	assert.True(t, domain.IsCompilationError(err))
}

func TestBuilder_DeclaredDependencies(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	d := derived("c", "int", "$a")
	d.DependsOn = []string{"a", "b"}

	_, err := engine.NewBuilder(logger).Build([]domain.ArgumentDescriptor{
		input("a", "int"),
		input("b", "int"),
		d,
	})
	require.NoError(t, err)
}

func TestBuilder_DeclaredDependencyMustExist(t *testing.T) {
	d := derived("c", "int", "$a")
	d.DependsOn = []string{"ghost"}

	_, err := engine.NewBuilder(nil).Build([]domain.ArgumentDescriptor{input("a", "int"), d})
	require.ErrorIs(t, err, domain.ErrUnresolvedReference)
}

func TestBuilder_WarnsOnUnreferenceableName(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()

	reg, err := engine.NewBuilder(logger).Build([]domain.ArgumentDescriptor{input("score2", "int")})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
}
