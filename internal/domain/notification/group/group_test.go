package group

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	require.True(t, Valid(User("u1")))
	require.True(t, Valid(Material("c1")))
	require.True(t, Valid(Activity("c1")))
	require.True(t, Valid(EnrollmentTeacher("t1")))
	require.True(t, Valid(ChatNotifications))
	require.True(t, Valid(PublicLobby))

	require.False(t, Valid("material:"))
	require.False(t, Valid("community:c1"))
	require.False(t, Valid(""))
}
