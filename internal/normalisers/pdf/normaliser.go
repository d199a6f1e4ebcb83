// Package pdf extracts text from PDF grant letters.
//
// Documents are first checked with pdfcpu in relaxed mode; a file pdfcpu
// cannot read is treated as unreadable and yields empty text. Readable
// files are handed to poppler's pdftotext.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driven"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.TextExtractor = (*Normaliser)(nil)

// DefaultTool is the text extraction binary looked up on PATH.
const DefaultTool = "pdftotext"

// ErrPDFToolNotFound is returned when pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found: " + InstallInstructions())

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// CommandRunner executes external commands.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil && stderr.Len() > 0 {
		return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out, err
}

// Normaliser extracts text from PDF documents.
type Normaliser struct {
	runner CommandRunner
	tool   string
	conf   *model.Configuration
}

// New creates a PDF normaliser that runs pdftotext from PATH.
func New() *Normaliser {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF normaliser with a custom command runner.
func NewWithRunner(runner CommandRunner) *Normaliser {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Normaliser{runner: runner, tool: DefaultTool, conf: conf}
}

// WithTool sets the pdftotext binary to run. An empty path keeps the default.
func (n *Normaliser) WithTool(tool string) *Normaliser {
	if tool != "" {
		n.tool = tool
	}
	return n
}

// CheckAvailable reports whether pdftotext can be found on PATH.
func CheckAvailable() error {
	if _, err := exec.LookPath(DefaultTool); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions describes how to install pdftotext.
func InstallInstructions() string {
	return "install poppler to get pdftotext (macOS: brew install poppler, Debian/Ubuntu: apt install poppler-utils)"
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Extract returns the text of all pages. Page breaks become line breaks.
func (n *Normaliser) Extract(ctx context.Context, raw *domain.RawDocument) (string, error) {
	if raw == nil {
		return "", domain.ErrInvalidInput
	}

	pages, err := api.PageCount(bytes.NewReader(raw.Content), n.conf)
	if err != nil {
		logger.Debug("%s: unreadable PDF: %v", raw.Name, err)
		return "", nil
	}
	if raw.Metadata == nil {
		raw.Metadata = make(map[string]any)
	}
	raw.Metadata["pages"] = pages

	tmp, err := os.CreateTemp("", "grantcheck-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	out, err := n.runner.Run(ctx, n.tool, "-enc", "UTF-8", tmp.Name(), "-")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrPDFToolNotFound
		}
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}

	logger.Debug("%s: %d pages, %d bytes of text", raw.Name, pages, len(out))
	return pageBreaks.Replace(string(out)), nil
}

var pageBreaks = strings.NewReplacer("\f", "\n")
