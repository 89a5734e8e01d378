package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/derive/internal/adapters/executor"
	"go.trai.ch/derive/internal/adapters/telemetry"
	"go.trai.ch/derive/internal/app"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/derive/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func catalog() []domain.ArgumentDescriptor {
	return []domain.ArgumentDescriptor{
		{Name: "a", Type: "int", Cacheable: true},
		{Name: "b", Type: "int", Cacheable: true},
		{Name: "c", Type: "int", Cacheable: true, Expression: "$a + $b"},
		{Name: "d", Type: "int", Cacheable: true, Expression: "$c * 10"},
	}
}

func newApp(ctrl *gomock.Controller) (*app.App, *mocks.MockConfigLoader, *mocks.MockLogger) {
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	a := app.New(loader, log, executor.NewPool(4), telemetry.NewNoOp())
	return a, loader, log
}

func TestApp_Evaluate(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, loader, _ := newApp(ctrl)

	loader.EXPECT().LoadCatalog("catalog.yaml").Return(catalog(), nil).Times(1)
	loader.EXPECT().LoadInputs("inputs.yaml").
		Return(map[string]domain.Value{"a": domain.Int(1), "b": domain.Int(2)}, nil).Times(2)

	for range 2 {
		res, err := a.Evaluate(context.Background(), app.EvalOptions{
			CatalogPath: "catalog.yaml",
			InputsPath:  "inputs.yaml",
			Inputs:      map[string]domain.Value{"b": domain.Int(8)},
			Targets:     []string{"d", "c", "d"},
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"d", "c"}, res.Targets)
		assert.Equal(t, int64(90), res.Values["d"].AsInt())
		assert.Equal(t, int64(9), res.Values["c"].AsInt())
		assert.NotEmpty(t, res.SessionID)
		assert.Len(t, res.Fingerprint, 16)
	}
}

func TestApp_Evaluate_NoTargets(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, _, _ := newApp(ctrl)

	_, err := a.Evaluate(context.Background(), app.EvalOptions{CatalogPath: "catalog.yaml"})
	require.ErrorIs(t, err, domain.ErrNoTargetsSpecified)
}

func TestApp_Evaluate_WarnsOnUnknownInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, loader, log := newApp(ctrl)

	loader.EXPECT().LoadCatalog("catalog.yaml").Return(catalog(), nil)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := a.Evaluate(context.Background(), app.EvalOptions{
		CatalogPath: "catalog.yaml",
		Inputs: map[string]domain.Value{
			"a":     domain.Int(1),
			"b":     domain.Int(1),
			"typo_": domain.Int(1),
		},
		Targets: []string{"c"},
	})
	require.NoError(t, err)
}

func TestApp_Evaluate_EvaluationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, loader, _ := newApp(ctrl)

	loader.EXPECT().LoadCatalog("catalog.yaml").Return(catalog(), nil)

	_, err := a.Evaluate(context.Background(), app.EvalOptions{
		CatalogPath: "catalog.yaml",
		Inputs:      map[string]domain.Value{"a": domain.Int(1)},
		Targets:     []string{"d"},
	})
	require.ErrorIs(t, err, domain.ErrValueNotFound)
	assert.True(t, domain.IsEvaluationError(err))
}

func TestApp_Evaluate_CompilationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, loader, _ := newApp(ctrl)

	loader.EXPECT().LoadCatalog("bad.yaml").Return([]domain.ArgumentDescriptor{
		{Name: "c", Type: "int", Expression: "$missing"},
	}, nil)

	_, err := a.Evaluate(context.Background(), app.EvalOptions{CatalogPath: "bad.yaml", Targets: []string{"c"}})
	require.ErrorIs(t, err, domain.ErrUnresolvedReference)
	assert.True(t, domain.IsCompilationError(err))
}

func TestApp_Inspect(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, loader, _ := newApp(ctrl)

	loader.EXPECT().LoadCatalog("catalog.yaml").Return(catalog(), nil)

	insp, err := a.Inspect("catalog.yaml")
	require.NoError(t, err)

	names := make([]string, 0, len(insp.Arguments))
	for _, arg := range insp.Arguments {
		names = append(names, arg.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, names)
	assert.Equal(t, "derived", insp.Arguments[2].Source)
	assert.Equal(t, []string{"a", "b"}, insp.Arguments[2].Dependencies)
	assert.Empty(t, insp.Cycle)
	assert.Contains(t, insp.Functions, "format")
}

func TestApp_Inspect_StaticCycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	a, loader, log := newApp(ctrl)

	loader.EXPECT().LoadCatalog("cycle.yaml").Return([]domain.ArgumentDescriptor{
		{Name: "x", Type: "int", Expression: "$y + 1"},
		{Name: "y", Type: "int", Expression: "$x + 1"},
	}, nil)
	log.EXPECT().Warn(gomock.Any()).Times(1)

	insp, err := a.Inspect("cycle.yaml")
	require.NoError(t, err)
	assert.Equal(t, "x -> y -> x", insp.Cycle)
	assert.Len(t, insp.Arguments, 2)
}

func TestApp_Evaluate_AsyncTargetsUseExecutor(t *testing.T) {
	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()

	// r and p are dispatched as targets; the body of r batches p and q.
	exec := mocks.NewMockExecutor(ctrl)
	exec.EXPECT().Execute(gomock.Any()).Do(func(task func()) { go task() }).Times(4)

	a := app.New(loader, log, exec, telemetry.NewNoOp())
	loader.EXPECT().LoadCatalog("catalog.yaml").Return([]domain.ArgumentDescriptor{
		{Name: "p", Type: "int", Async: true},
		{Name: "q", Type: "int", Async: true},
		{Name: "k", Type: "int"},
		{Name: "r", Type: "int", Async: true, Expression: "$p + $q + $k"},
	}, nil).Times(1)

	res, err := a.Evaluate(context.Background(), app.EvalOptions{
		CatalogPath: "catalog.yaml",
		Inputs: map[string]domain.Value{
			"p": domain.Int(1),
			"q": domain.Int(2),
			"k": domain.Int(3),
		},
		Targets: []string{"r", "k", "p"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"r", "k", "p"}, res.Targets)
	assert.Equal(t, int64(6), res.Values["r"].AsInt())
	assert.Equal(t, int64(3), res.Values["k"].AsInt())
	assert.Equal(t, int64(1), res.Values["p"].AsInt())
}
