package tokenizer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eliben/go-sentencepiece"
)

// spaceMarker is the SentencePiece word-boundary symbol U+2581.
const spaceMarker = "▁"

// pieceEncoder is the part of a SentencePiece processor the tokenizer uses.
type pieceEncoder interface {
	Encode(text string) []sentencepiece.Token
}

// SentencePiece forwards tokenization to a SentencePiece model.
type SentencePiece struct {
	open  func(path string) (pieceEncoder, error)
	model pieceEncoder
}

// NewSentencePiece returns an unloaded SentencePiece tokenizer.
func NewSentencePiece() *SentencePiece {
	return &SentencePiece{open: openProcessor}
}

func openProcessor(path string) (pieceEncoder, error) {
	return sentencepiece.NewProcessorFromPath(path)
}

// Kind returns KindSentencePiece.
func (s *SentencePiece) Kind() Kind {
	return KindSentencePiece
}

// Load opens the SentencePiece model at path.
func (s *SentencePiece) Load(path string) error {
	model, err := s.open(path)
	if err != nil {
		return fmt.Errorf("failed to load SentencePiece model %s: %w", path, err)
	}
	s.model = model
	return nil
}

// Encode returns the piece strings of text.
func (s *SentencePiece) Encode(text string) []string {
	if s.model == nil {
		return nil
	}

	encoded := s.model.Encode(text)
	pieces := make([]string, 0, len(encoded))
	for _, tok := range encoded {
		pieces = append(pieces, tok.Text)
	}
	return pieces
}

// Decode joins pieces the way the SentencePiece decoder does: boundary
// markers become spaces, the leading space is dropped, byte-fallback pieces
// are turned back into bytes and control pieces are skipped.
func (s *SentencePiece) Decode(pieces []string) string {
	if s.model == nil {
		return ""
	}

	var sb strings.Builder
	for _, piece := range pieces {
		switch piece {
		case "<s>", "</s>", "<pad>":
			continue
		}
		if b, ok := byteFallback(piece); ok {
			sb.WriteByte(b)
			continue
		}
		sb.WriteString(strings.ReplaceAll(piece, spaceMarker, " "))
	}

	return strings.TrimPrefix(sb.String(), " ")
}

// byteFallback decodes pieces of the form <0xNN>.
func byteFallback(piece string) (byte, bool) {
	if len(piece) != 6 || !strings.HasPrefix(piece, "<0x") || piece[5] != '>' {
		return 0, false
	}
	v, err := strconv.ParseUint(piece[3:5], 16, 8)
	if err != nil {
		return 0, false
	}
	return byte(v), true
}
