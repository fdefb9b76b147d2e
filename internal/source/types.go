package source

type (
	// FileID uniquely identifies a document within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a document.
	FileFlags uint8
)

const (
	// FileVirtual marks a document added from memory (editor buffer, stdin, test).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single HTML document.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // offsets of '\n'
	Hash    [32]byte
	Flags   FileFlags
}

// Len returns the document length in bytes.
func (f *File) Len() uint32 {
	return uint32(len(f.Content)) //nolint:gosec // Add rejects documents over 4GiB
}

// LineCol represents a human-readable position in a document.
// Col counts bytes from the start of the line.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
