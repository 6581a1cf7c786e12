package tokenizer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Model file names looked up inside a package directory.
const (
	SentencePieceFile = "sentencepiece.model"
	BPEFile           = "bpe.model"
)

// Kind identifies a tokenizer implementation.
type Kind int

const (
	KindBPE Kind = iota
	KindSentencePiece
)

// String returns the kind name used in logs and API responses.
func (k Kind) String() string {
	switch k {
	case KindBPE:
		return "bpe"
	case KindSentencePiece:
		return "sentencepiece"
	default:
		return "unknown"
	}
}

// Tokenizer converts text to the subword tokens a translation model consumes
// and back.
//
// Encode and Decode on a tokenizer that has not been loaded return an empty
// token sequence and an empty string respectively.
type Tokenizer interface {
	// Load reads the model file at path.
	Load(path string) error

	// Encode splits text into subword tokens.
	Encode(text string) []string

	// Decode joins subword tokens back into text.
	Decode(tokens []string) string

	// Kind reports which implementation this is.
	Kind() Kind
}

// ModelPath returns the tokenizer model file of a package directory:
// sentencepiece.model when present, bpe.model otherwise.
func ModelPath(packageDir string) string {
	spPath := filepath.Join(packageDir, SentencePieceFile)
	if _, err := os.Stat(spPath); err == nil {
		return spPath
	}
	return filepath.Join(packageDir, BPEFile)
}

// New returns an unloaded tokenizer suited to the model file at path.
func New(path string) Tokenizer {
	if filepath.Base(path) == SentencePieceFile {
		return NewSentencePiece()
	}
	return NewBPE()
}

// Open selects and loads the tokenizer of a package directory.
func Open(packageDir string) (Tokenizer, error) {
	path := ModelPath(packageDir)
	tok := New(path)
	if err := tok.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load %s tokenizer: %w", tok.Kind(), err)
	}
	return tok, nil
}
