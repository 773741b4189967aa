package hydrate_test

import (
	"testing"

	"fjacquet/agri-potential/cmd/hydrate"

	"github.com/stretchr/testify/assert"
)

func TestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "hydrate", hydrate.Cmd.Use)
	assert.Contains(t, hydrate.Cmd.Short, "snapshots onto customer")
	assert.Contains(t, hydrate.Cmd.Long, "Overwrite the potential fields")
	assert.Contains(t, hydrate.Cmd.Long, "Example")
	assert.NotNil(t, hydrate.Cmd.RunE)
}

func TestCommand_Flags(t *testing.T) {
	for _, name := range []string{"year"} {
		assert.NotNil(t, hydrate.Cmd.Flags().Lookup(name), name)
	}
}
