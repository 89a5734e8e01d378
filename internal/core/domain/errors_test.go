package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/derive/internal/core/domain"
	"go.trai.ch/zerr"
)

func TestErrorClassification(t *testing.T) {
	compile := zerr.With(zerr.Wrap(domain.ErrDuplicateArgument, "cannot register"), "argument", "a")
	eval := zerr.With(zerr.Wrap(domain.ErrCircularDependency, "cannot resolve"), "cycle", "x -> x")

	assert.True(t, domain.IsCompilationError(compile))
	assert.False(t, domain.IsEvaluationError(compile))

	assert.True(t, domain.IsEvaluationError(eval))
	assert.False(t, domain.IsCompilationError(eval))

	joined := errors.Join(errors.New("other"), compile)
	assert.True(t, domain.IsCompilationError(joined))

	assert.False(t, domain.IsCompilationError(nil))
	assert.False(t, domain.IsEvaluationError(errors.New("plain")))
}
