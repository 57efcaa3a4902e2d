package ncpnumber

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNcpNumber(t *testing.T) {
	t.Run(`prefix check`, func(t *testing.T) {
		require.Equal(t, "2501-", Prefix(time.Date(2025, time.January, 31, 23, 0, 0, 0, time.UTC)))
		require.Equal(t, "2612-", Prefix(time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run(`next check`, func(t *testing.T) {
		next, err := Next("2501-", "2501-0002")
		require.Nil(t, err)
		require.Equal(t, "2501-0003", next)

		next, err = Next("2502-", "")
		require.Nil(t, err)
		require.Equal(t, "2502-0001", next)

		next, err = Next("2501-", "2501-0099")
		require.Nil(t, err)
		require.Equal(t, "2501-0100", next)
	})

	t.Run(`next errors check`, func(t *testing.T) {
		_, err := Next("2501-", "2412-0007")
		require.NotNil(t, err)

		_, err = Next("2501-", "2501-9999")
		require.NotNil(t, err)

		_, err = Next("2501-", "garbage")
		require.NotNil(t, err)
	})

	t.Run(`parse check`, func(t *testing.T) {
		prefix, serial, err := Parse("2510-0042")
		require.Nil(t, err)
		require.Equal(t, "2510-", prefix)
		require.Equal(t, 42, serial)

		require.False(t, IsValid("2513-0001"))
		require.False(t, IsValid("251-0001"))
		require.False(t, IsValid("2501-001"))
		require.True(t, IsValid("2501-0001"))
	})
}
