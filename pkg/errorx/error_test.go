package errorx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	err := New(NotFound, "Not found enrollment %d", 10)
	require.Equal(t, "Not found enrollment 10", err.Error())
	require.True(t, Is(err, NotFound))
	require.False(t, Is(err, BadRequest))

	wrapped := fmt.Errorf("dispatch: %w", err)
	require.True(t, Is(wrapped, NotFound))
	require.False(t, Is(errors.New("plain"), NotFound))
}
