// Package tokenizer turns text into the subword tokens consumed by a
// translation model and back.
//
// Two implementations exist: BPE applies merge rules from a bpe.model rule
// file itself, while SentencePiece delegates to a sentencepiece.model file.
// Open picks the right one for a package directory.
package tokenizer
