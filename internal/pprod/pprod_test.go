package pprod_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"qfbv/internal/pprod"
)

func TestProductHashConsing(t *testing.T) {
	tbl := pprod.NewTable()
	id1, err := tbl.Product([]pprod.Factor{{Var: 10, Exp: 2}, {Var: 4, Exp: 1}})
	require.NoError(t, err)
	id2, err := tbl.Product([]pprod.Factor{{Var: 4, Exp: 1}, {Var: 10, Exp: 2}})
	require.NoError(t, err)
	require.Equal(t, id1, id2, "reordering the same factors must hash-cons to the same id")

	require.Equal(t, []pprod.Factor{{Var: 4, Exp: 1}, {Var: 10, Exp: 2}}, tbl.Factors(id1))
}

func TestProductMergesDuplicateVariables(t *testing.T) {
	tbl := pprod.NewTable()
	id, err := tbl.Product([]pprod.Factor{{Var: 1, Exp: 2}, {Var: 1, Exp: 3}})
	require.NoError(t, err)
	require.Equal(t, []pprod.Factor{{Var: 1, Exp: 5}}, tbl.Factors(id))
	require.EqualValues(t, 5, tbl.Degree(id))
}

func TestEmptyProductRejected(t *testing.T) {
	tbl := pprod.NewTable()
	_, err := tbl.Product(nil)
	require.Error(t, err)
}

func TestSingleVariableExponentOneRejected(t *testing.T) {
	tbl := pprod.NewTable()
	_, err := tbl.Product([]pprod.Factor{{Var: 7, Exp: 1}})
	require.Error(t, err)
}

func TestSingleVariableHigherExponentAllowed(t *testing.T) {
	tbl := pprod.NewTable()
	id, err := tbl.Product([]pprod.Factor{{Var: 7, Exp: 2}})
	require.NoError(t, err)
	require.Equal(t, []pprod.Factor{{Var: 7, Exp: 2}}, tbl.Factors(id))
}

func TestSweepCompactsAndRemaps(t *testing.T) {
	tbl := pprod.NewTable()
	keep, err := tbl.Product([]pprod.Factor{{Var: 1, Exp: 2}})
	require.NoError(t, err)
	_, err = tbl.Product([]pprod.Factor{{Var: 2, Exp: 2}})
	require.NoError(t, err)

	tbl.Mark(keep)
	remap := tbl.Sweep()

	newID, ok := remap[keep]
	require.True(t, ok)
	require.Equal(t, []pprod.Factor{{Var: 1, Exp: 2}}, tbl.Factors(newID))
	require.Len(t, remap, 1)
}
