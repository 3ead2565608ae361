package tsync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorGroupCollectsAllErrors(t *testing.T) {
	g, _ := ErrorGroupWithContext(context.Background())

	err1 := errors.New("first")
	err2 := errors.New("second")

	g.Go(func() error { return err1 })
	g.Go(func() error { return nil })
	g.Go(func() error { return err2 })

	err := g.Wait()
	require.Error(t, err)
	assert.ErrorIs(t, err, err1)
	assert.ErrorIs(t, err, err2)
}

func TestErrorGroupNoErrors(t *testing.T) {
	g, _ := ErrorGroupWithContext(context.Background())

	g.Go(func() error { return nil })
	g.Go(func() error { return nil })

	assert.NoError(t, g.Wait())
}

func TestErrorGroupCancelsContext(t *testing.T) {
	g, ctx := ErrorGroupWithContext(context.Background())

	g.Go(func() error { return nil })
	require.NoError(t, g.Wait())

	select {
	case <-ctx.Done():
	default:
		t.Fatal("expected context to be canceled after Wait")
	}
}
