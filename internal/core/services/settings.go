package services

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService resolves configuration and guards access.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the settings with defaults applied.
func (s *SettingsService) Get() domain.Settings {
	defaults := domain.DefaultSettings()
	if s.configStore == nil {
		return defaults
	}
	return domain.Settings{
		Verbose:      s.configStore.GetBool(domain.KeyVerbose),
		PDFTool:      s.getString(domain.KeyPDFTool, defaults.PDFTool),
		GrammarDir:   s.configStore.GetString(domain.KeyGrammarDir),
		ExportDir:    s.configStore.GetString(domain.KeyExportDir),
		FillColor:    strings.TrimPrefix(s.getString(domain.KeyFillColor, defaults.FillColor), "#"),
		AccessKeySHA: strings.ToLower(s.configStore.GetString(domain.KeyAccessKeySHA)),
	}
}

// AccessRequired reports whether an access key digest is configured.
func (s *SettingsService) AccessRequired() bool {
	return s.Get().AccessKeySHA != ""
}

// VerifyAccessKey compares the key's SHA-256 digest with the configured one.
func (s *SettingsService) VerifyAccessKey(key string) error {
	want := s.Get().AccessKeySHA
	if want == "" {
		return nil
	}
	got := digest(key)
	if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
		return domain.ErrAccessDenied
	}
	return nil
}

// SetAccessKey stores the digest of key. An empty key clears the gate.
func (s *SettingsService) SetAccessKey(key string) error {
	if s.configStore == nil {
		return fmt.Errorf("%w: no config store", domain.ErrInvalidInput)
	}
	value := ""
	if key != "" {
		value = digest(key)
	}
	if err := s.configStore.Set(domain.KeyAccessKeySHA, value); err != nil {
		return fmt.Errorf("save access key: %w", err)
	}
	return nil
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func digest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
