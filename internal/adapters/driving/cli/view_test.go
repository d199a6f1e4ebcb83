package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

func TestViewCmd_Flags(t *testing.T) {
	for _, name := range []string{"pipeline", "reference", "duplicates", "out"} {
		assert.NotNil(t, viewCmd.Flags().Lookup(name), name)
	}
	assert.Contains(t, viewCmd.Long, "Tab")
}

func TestViewCmd_ReconcileErrorStopsBeforeTUI(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.reconcile.err = domain.ErrSchemaMismatch

	_, _, err := execute("view", "-p", "bonus-en", "-r", "ref.csv", "a.pdf")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestViewCmd_UnknownPipelineExportPath(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute("view", "-p", "nope", "-r", "ref.csv", "a.pdf")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
