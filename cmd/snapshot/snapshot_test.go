package snapshot_test

import (
	"testing"

	"fjacquet/agri-potential/cmd/snapshot"

	"github.com/stretchr/testify/assert"
)

func TestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "snapshot", snapshot.Cmd.Use)
	assert.Contains(t, snapshot.Cmd.Short, "potential snapshots")
	assert.Contains(t, snapshot.Cmd.Long, "share of wallet")
	assert.Contains(t, snapshot.Cmd.Long, "Example")
	assert.NotNil(t, snapshot.Cmd.RunE)
}

func TestCommand_Flags(t *testing.T) {
	for _, name := range []string{"year", "eur-per-ha"} {
		assert.NotNil(t, snapshot.Cmd.Flags().Lookup(name), name)
	}
}
