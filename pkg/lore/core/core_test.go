package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshniemela/checkir/pkg/checker"
	"github.com/joshniemela/checkir/pkg/ir"
	"github.com/joshniemela/checkir/pkg/lore/core"
)

func TestNewReportsCoreName(t *testing.T) {
	assert.Equal(t, "core", core.New().Name())
}

func TestCheckOpRejectsAnyCustomOperator(t *testing.T) {
	l := core.New()
	env := checker.NewEnv(true)

	_, _, errc := l.CheckOp(env, ir.OpExpr{OpName: "seg_map"})
	require.NotNil(t, errc)
	_, ok := errc.(checker.GenericTypeError)
	assert.True(t, ok)
}
