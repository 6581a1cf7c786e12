package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// endOfWord marks the final symbol of a word while merges are applied.
	endOfWord = "</w>"

	// continuation marks a token that is followed by more of the same word.
	continuation = "@@"

	maxRuleLine = 1024 * 1024
)

type pair struct {
	first  string
	second string
}

// BPE applies byte-pair-encoding merge rules loaded from a rule file with one
// "left right" pair per line. Tokens that continue into the next token of the
// same word carry the "@@" suffix.
type BPE struct {
	ranks  map[pair]int
	loaded bool
}

// NewBPE returns an unloaded BPE tokenizer.
func NewBPE() *BPE {
	return &BPE{ranks: make(map[pair]int)}
}

// Kind returns KindBPE.
func (b *BPE) Kind() Kind {
	return KindBPE
}

// Load reads merge rules from the file at path.
func (b *BPE) Load(path string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from the package directory
	if err != nil {
		return fmt.Errorf("failed to open BPE model: %w", err)
	}
	defer f.Close()

	return b.LoadReader(f)
}

// LoadReader reads merge rules from r, replacing any previously loaded rules.
//
// The first line is a version header and is skipped when it starts with '#';
// otherwise it is taken as a rule with rank 0. Later rules are ranked from 1
// in file order. Empty lines and '#' comments are ignored, and a repeated
// pair keeps its first rank.
func (b *BPE) LoadReader(r io.Reader) error {
	ranks := make(map[pair]int)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRuleLine)

	if scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			addRule(ranks, line, 0)
		}
	}

	rank := 1
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if addRule(ranks, line, rank) {
			rank++
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read BPE model: %w", err)
	}

	b.ranks = ranks
	b.loaded = true
	return nil
}

// addRule parses a rule line and records it at rank. It reports whether the
// line held a rule.
func addRule(ranks map[pair]int, line string, rank int) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}

	p := pair{first: fields[0], second: fields[1]}
	if _, exists := ranks[p]; !exists {
		ranks[p] = rank
	}
	return true
}

// Rank returns the merge rank of the pair left+right.
func (b *BPE) Rank(left, right string) (int, bool) {
	rank, ok := b.ranks[pair{first: left, second: right}]
	return rank, ok
}

// Encode splits text on whitespace and applies the merge rules to each word.
func (b *BPE) Encode(text string) []string {
	if !b.loaded {
		return nil
	}

	var tokens []string
	for _, word := range strings.Fields(text) {
		for _, symbol := range b.applyMerges(word) {
			if strings.HasSuffix(symbol, endOfWord) {
				tokens = append(tokens, strings.TrimSuffix(symbol, endOfWord))
			} else {
				tokens = append(tokens, symbol+continuation)
			}
		}
	}
	return tokens
}

// applyMerges repeatedly merges the lowest-ranked adjacent pair of a word
// until no adjacent pair has a rule.
func (b *BPE) applyMerges(word string) []string {
	symbols := splitCodepoints(word)
	if len(symbols) == 0 {
		return nil
	}
	symbols[len(symbols)-1] += endOfWord

	for len(symbols) > 1 {
		var best pair
		bestRank, found := 0, false

		for i := 0; i < len(symbols)-1; i++ {
			rank, ok := b.ranks[pair{first: symbols[i], second: symbols[i+1]}]
			if ok && (!found || rank < bestRank) {
				best = pair{first: symbols[i], second: symbols[i+1]}
				bestRank, found = rank, true
			}
		}

		if !found {
			break
		}
		symbols = mergePair(symbols, best)
	}

	return symbols
}

// mergePair replaces every non-overlapping occurrence of p, scanning left to
// right, with the concatenation of its two symbols.
func mergePair(symbols []string, p pair) []string {
	merged := make([]string, 0, len(symbols))
	for i := 0; i < len(symbols); i++ {
		if i < len(symbols)-1 && symbols[i] == p.first && symbols[i+1] == p.second {
			merged = append(merged, p.first+p.second)
			i++
			continue
		}
		merged = append(merged, symbols[i])
	}
	return merged
}

// Decode joins tokens, gluing "@@" tokens to their successor and separating
// words with a single space.
func (b *BPE) Decode(tokens []string) string {
	if !b.loaded {
		return ""
	}

	var sb strings.Builder
	for _, token := range tokens {
		if strings.HasSuffix(token, continuation) {
			sb.WriteString(strings.TrimSuffix(token, continuation))
			continue
		}
		sb.WriteString(token)
		sb.WriteByte(' ')
	}

	return strings.TrimSuffix(sb.String(), " ")
}

// splitCodepoints splits s into UTF-8 sequences by leading-byte pattern.
// A sequence that would run past the end of s, or an invalid leading byte,
// is emitted as a single byte so the scan always advances.
func splitCodepoints(s string) []string {
	symbols := make([]string, 0, len(s))
	for i := 0; i < len(s); {
		n := sequenceLength(s[i])
		if i+n > len(s) {
			n = 1
		}
		symbols = append(symbols, s[i:i+n])
		i += n
	}
	return symbols
}

func sequenceLength(lead byte) int {
	switch {
	case lead&0x80 == 0:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
