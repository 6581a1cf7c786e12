package tokenizer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/eliben/go-sentencepiece"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	pieces map[string][]string
}

func (f *fakeProcessor) Encode(text string) []sentencepiece.Token {
	var tokens []sentencepiece.Token
	for i, piece := range f.pieces[text] {
		tokens = append(tokens, sentencepiece.Token{ID: i, Text: piece})
	}
	return tokens
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bpe", KindBPE.String())
	assert.Equal(t, "sentencepiece", KindSentencePiece.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestModelPath(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, BPEFile), ModelPath(dir), "bpe.model is the fallback")

	require.NoError(t, os.WriteFile(filepath.Join(dir, SentencePieceFile), []byte("x"), 0644))
	assert.Equal(t, filepath.Join(dir, SentencePieceFile), ModelPath(dir))
}

func TestNewSelectsByFileName(t *testing.T) {
	assert.Equal(t, KindSentencePiece, New("/pkgs/en_es/sentencepiece.model").Kind())
	assert.Equal(t, KindBPE, New("/pkgs/en_es/bpe.model").Kind())
	assert.Equal(t, KindBPE, New("/pkgs/en_es/other.model").Kind())
}

func TestOpen_BPE(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, BPEFile), []byte("#version: 0.2\nh i</w>\n"), 0644))

	tok, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, KindBPE, tok.Kind())
	assert.Equal(t, []string{"hi"}, tok.Encode("hi"))
}

func TestOpen_NoModel(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load bpe tokenizer")
}

func TestSentencePiece_LoadError(t *testing.T) {
	tok := NewSentencePiece()
	tok.open = func(string) (pieceEncoder, error) {
		return nil, errors.New("unsupported model type")
	}

	err := tok.Load("sentencepiece.model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported model type")
	assert.Empty(t, tok.Encode("hello"))
	assert.Equal(t, "", tok.Decode([]string{"▁hello"}))
}

func TestSentencePiece_Forwarding(t *testing.T) {
	tok := NewSentencePiece()
	tok.open = func(string) (pieceEncoder, error) {
		return &fakeProcessor{pieces: map[string][]string{
			"Hello world": {"▁Hello", "▁wor", "ld"},
		}}, nil
	}
	require.NoError(t, tok.Load("sentencepiece.model"))

	pieces := tok.Encode("Hello world")
	assert.Equal(t, []string{"▁Hello", "▁wor", "ld"}, pieces)
	assert.Equal(t, "Hello world", tok.Decode(pieces))
}

func TestSentencePiece_Decode(t *testing.T) {
	tok := NewSentencePiece()
	tok.open = func(string) (pieceEncoder, error) { return &fakeProcessor{}, nil }
	require.NoError(t, tok.Load("sentencepiece.model"))

	tests := []struct {
		name   string
		pieces []string
		want   string
	}{
		{"empty", nil, ""},
		{"markers", []string{"▁Hola", "▁a", "migo"}, "Hola amigo"},
		{"control pieces", []string{"<s>", "▁Hola", "</s>"}, "Hola"},
		{"byte fallback", []string{"▁caf", "<0xC3>", "<0xA9>"}, "café"},
		{"not byte fallback", []string{"▁<0xZZ>"}, "<0xZZ>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tok.Decode(tt.pieces))
		})
	}
}
