package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grantcheck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/grantcheck/internal/core/domain"
)

func TestSettingsService_Defaults(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	assert.Equal(t, domain.DefaultSettings(), svc.Get())
	assert.False(t, svc.AccessRequired())
	assert.NoError(t, svc.VerifyAccessKey("anything"))
}

func TestSettingsService_NilStore(t *testing.T) {
	svc := NewSettingsService(nil)
	assert.Equal(t, domain.DefaultSettings(), svc.Get())
	assert.Error(t, svc.SetAccessKey("k"))
}

func TestSettingsService_StoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		domain.KeyVerbose:    true,
		domain.KeyPDFTool:    "/opt/poppler/bin/pdftotext",
		domain.KeyGrammarDir: "/etc/grantcheck/grammars",
		domain.KeyExportDir:  "/tmp/out",
		domain.KeyFillColor:  "#ffcc00",
	})
	svc := NewSettingsService(store)

	s := svc.Get()
	assert.True(t, s.Verbose)
	assert.Equal(t, "/opt/poppler/bin/pdftotext", s.PDFTool)
	assert.Equal(t, "/etc/grantcheck/grammars", s.GrammarDir)
	assert.Equal(t, "/tmp/out", s.ExportDir)
	assert.Equal(t, "ffcc00", s.FillColor)
}

func TestSettingsService_AccessKey(t *testing.T) {
	svc := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, svc.SetAccessKey("s3cret"))
	assert.True(t, svc.AccessRequired())
	assert.Len(t, svc.Get().AccessKeySHA, 64)

	assert.NoError(t, svc.VerifyAccessKey("s3cret"))
	assert.True(t, errors.Is(svc.VerifyAccessKey("wrong"), domain.ErrAccessDenied))
	assert.True(t, errors.Is(svc.VerifyAccessKey(""), domain.ErrAccessDenied))

	require.NoError(t, svc.SetAccessKey(""))
	assert.False(t, svc.AccessRequired())
}

func TestSettingsService_UppercaseDigest(t *testing.T) {
	// sha256("s3cret") stored in upper case still verifies.
	store := memory.NewConfigStore(map[string]any{
		domain.KeyAccessKeySHA: "1EC1C26B50D5D3C58D9583181AF8076655FE00756BF7285940BA3670F99FCBA0",
	})
	svc := NewSettingsService(store)

	assert.NoError(t, svc.VerifyAccessKey("s3cret"))
}
