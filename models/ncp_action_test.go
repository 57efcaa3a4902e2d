package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNcpActionAllowedFrom(t *testing.T) {
	t.Run(`only the table pre-state is allowed`, func(t *testing.T) {
		for action, tr := range Transitions {
			require.True(t, action.AllowedFrom(tr.From), action)
			require.False(t, action.AllowedFrom(NcpStatusManagerApproved), action)
		}
	})
	t.Run(`overrides have no transition`, func(t *testing.T) {
		for _, action := range []NcpAction{NcpActionSubmit, NcpActionSuperEdit, NcpActionRevertStatus, NcpActionDelete} {
			require.False(t, action.AllowedFrom(NcpStatusPending), action)
		}
	})
}
