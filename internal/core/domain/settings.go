package domain

// Configuration keys understood by the config store.
const (
	KeyVerbose        = "log.verbose"
	KeyPDFTool        = "pdf.tool"
	KeyGrammarDir     = "grammar.dir"
	KeyExportDir      = "export.dir"
	KeyFillColor      = "export.fill_color"
	KeyAccessKeySHA   = "access.key_sha256"
	DefaultPDFTool    = "pdftotext"
	DefaultFillColor  = "FF9999"
	DisplayFlagColour = "#FFCCCC"
)

// Settings is the resolved runtime configuration.
type Settings struct {
	Verbose      bool
	PDFTool      string
	GrammarDir   string
	ExportDir    string
	FillColor    string
	AccessKeySHA string
}

// DefaultSettings returns settings with defaults applied.
func DefaultSettings() Settings {
	return Settings{
		PDFTool:   DefaultPDFTool,
		FillColor: DefaultFillColor,
	}
}
