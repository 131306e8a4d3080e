package exc

const (
	CodeUnknownFatal                  = "M0000"
	CodeFileNotFound                  = "M0001"
	CodeUnsuportedFileSystemOperation = "M0002"
	CodePermissionDenied              = "M0003"
	CodeUnsupportedFileFormat         = "M0004"
	CodeUnexpectedEOF                 = "M0005"
)

// Parse engine codes. Everything from CodeTableIndex to CodeSyntax is fatal to
// the engine instance that raised it.
const (
	CodeMalformedTable    = "M0100"
	CodeTableIndex        = "M0101"
	CodeTableEntryMissing = "M0102"
	CodeSyntax            = "M0103"
	CodeStackUnderflow    = "M0104"
	CodeResourceExhausted = "M0105"
	CodeLexical           = "M0106"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
