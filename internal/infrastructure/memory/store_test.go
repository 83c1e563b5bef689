package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cartera-b2b/internal/domain/entity"
	"github.com/jhoicas/cartera-b2b/internal/domain/repository"
)

func TestRunLedger_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.RunLedger(ctx, func(repos repository.Repositories) error {
		return repos.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Bodega norte"})
	}))

	got, err := s.Repos().Stores.GetByID(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Bodega norte", got.Name)
}

func TestRunLedger_ErrorDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	boom := errors.New("boom")

	err := s.RunLedger(ctx, func(repos repository.Repositories) error {
		if err := repos.Stores.Create(ctx, &entity.Store{ID: "s1", Name: "Bodega norte"}); err != nil {
			return err
		}
		if _, err := repos.Sequences.Next(ctx, "FV"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Stores.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// El número consumido en la transacción fallida no se pierde.
	n, err := s.Repos().Sequences.Next(ctx, "FV")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRunLedger_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false

	err := NewStore().RunLedger(ctx, func(repository.Repositories) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPage_Recorte(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, page(items, 0, 0))
	assert.Equal(t, []int{3, 4}, page(items, 2, 2))
	assert.Equal(t, []int{5}, page(items, 10, 4))
	assert.Empty(t, page(items, 2, 9))
}
