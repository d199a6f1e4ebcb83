// Package cli provides the grantcheck command line interface.
// It is a driving adapter: commands translate flags into calls on driving ports.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/grantcheck/internal/core/domain"
	"github.com/custodia-labs/grantcheck/internal/core/ports/driving"
	"github.com/custodia-labs/grantcheck/internal/logger"
)

// EnvAccessKey supplies the access key without prompting.
const EnvAccessKey = "GRANTCHECK_ACCESS_KEY"

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

var (
	reconcileService driving.ReconcileService
	pipelineService  driving.PipelineService
	settingsService  driving.SettingsService
	batchLoader      driving.BatchLoader
)

// Services holds the driving ports the commands use.
type Services struct {
	Reconcile driving.ReconcileService
	Pipelines driving.PipelineService
	Settings  driving.SettingsService
	Loader    driving.BatchLoader
}

// SetServices wires the core services into the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	reconcileService = s.Reconcile
	pipelineService = s.Pipelines
	settingsService = s.Settings
	batchLoader = s.Loader
}

// readPassword reads a key from a terminal without echo. Replaced in tests.
var readPassword = func(fd int) ([]byte, error) {
	return term.ReadPassword(fd)
}

// isTerminal reports whether fd is a terminal. Replaced in tests.
var isTerminal = term.IsTerminal

var rootCmd = &cobra.Command{
	Use:   "grantcheck",
	Short: "Reconcile grant letters against a reference table",
	Long: `grantcheck checks employee compensation letters (PDF) against a
reference table and reports every field that disagrees.

Each letter is matched to its reference row by employee name, the
pipeline's fields are extracted from the letter text and compared with
the reference values. Mismatches are marked in the report and can be
exported as a highlighted spreadsheet.`,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. Cancelling ctx stops long-running commands.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func preRun(cmd *cobra.Command, _ []string) error {
	if settingsService != nil && settingsService.Get().Verbose {
		logger.SetVerbose(true)
	}
	if verbose {
		logger.SetVerbose(true)
	}

	if cmd == versionCmd || settingsService == nil || !settingsService.AccessRequired() {
		return nil
	}
	return checkAccess(cmd)
}

// checkAccess verifies the access key from the environment or a hidden prompt.
func checkAccess(cmd *cobra.Command) error {
	key, ok := os.LookupEnv(EnvAccessKey)
	if !ok {
		var err error
		key, err = promptAccessKey(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}
	if err := settingsService.VerifyAccessKey(key); err != nil {
		return fmt.Errorf("checking access key: %w", err)
	}
	return nil
}

func promptAccessKey(w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return "", fmt.Errorf("%w: set %s", domain.ErrAccessDenied, EnvAccessKey)
	}
	fmt.Fprint(w, "Access key: ")
	data, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("reading access key: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

var errNotConfigured = errors.New("service not configured")

func requireService(name string, ok bool) error {
	if !ok {
		return fmt.Errorf("%s %w", name, errNotConfigured)
	}
	return nil
}
