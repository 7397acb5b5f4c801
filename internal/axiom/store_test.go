package axiom

import (
	"testing"

	"github.com/hupe1980/owlgo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sub(c, p model.EntityID) model.Axiom {
	return model.Axiom{Kind: model.SubClassOf, Subject: c, Object: p}
}

func TestStore_AppendAndGet(t *testing.T) {
	s := NewStore(4)

	idx, err := s.Append(sub(2, 1))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), idx)

	idx, err = s.Append(sub(1, 0))
	require.NoError(t, err)
	assert.Equal(t, uint32(1), idx)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.PendingCount())

	a, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, model.EntityID(1), a.Subject)
	assert.False(t, a.Materialized())

	_, ok = s.Get(2)
	assert.False(t, ok)
}

func TestStore_MarkPendingMaterialized(t *testing.T) {
	s := NewStore(0)
	for i := 0; i < 4; i++ {
		_, err := s.Append(sub(model.EntityID(i+1), model.EntityID(i)))
		require.NoError(t, err)
	}

	n := s.MarkPendingMaterialized(400)
	assert.Equal(t, 4, n)
	assert.Equal(t, 0, s.PendingCount())

	for _, a := range s.All() {
		assert.True(t, a.Materialized())
		assert.Equal(t, uint32(100), a.TickCost)
	}

	t.Run("only new axioms become pending", func(t *testing.T) {
		_, err := s.Append(sub(9, 8))
		require.NoError(t, err)

		var pending []uint32
		for idx := range s.Pending() {
			pending = append(pending, idx)
		}
		assert.Equal(t, []uint32{4}, pending)

		assert.Equal(t, 1, s.MarkPendingMaterialized(0))
		a, _ := s.Get(4)
		assert.Equal(t, uint32(1), a.TickCost, "tick cost is at least one")
	})

	assert.Equal(t, 0, s.MarkPendingMaterialized(10), "nothing pending")
}

func TestStore_CloneIsIndependent(t *testing.T) {
	s := NewStore(0)
	_, _ = s.Append(sub(1, 0))

	c := s.Clone()
	_, _ = c.Append(sub(2, 1))
	c.MarkPendingMaterialized(10)

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, s.PendingCount())
	a, _ := s.Get(0)
	assert.False(t, a.Materialized())
}

func TestStore_CountByKind(t *testing.T) {
	s := NewStore(0)
	_, _ = s.Append(sub(1, 0))
	_, _ = s.Append(sub(2, 0))
	_, _ = s.Append(model.Axiom{Kind: model.DisjointWith, Subject: 1, Object: 2})

	counts := s.CountByKind()
	assert.Equal(t, 2, counts[model.SubClassOf])
	assert.Equal(t, 1, counts[model.DisjointWith])
	assert.Zero(t, counts[model.Domain])
}

func TestStore_Reset(t *testing.T) {
	s := NewStore(0)
	_, _ = s.Append(sub(1, 0))
	s.Reset()
	assert.Zero(t, s.Len())
	assert.Zero(t, s.PendingCount())
}

func TestAxiomSize(t *testing.T) {
	assert.Equal(t, 16, model.AxiomSize)
}
