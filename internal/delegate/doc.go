// Package delegate connects the translation pipeline to the component that
// actually runs a translation model. A Loader prepares a Delegate for one hop
// and the Delegate translates batches of tokens for that hop only.
//
// Three backends exist: an inference server reached over HTTP, and two LLM
// backends (OpenAI and Gemini) which detokenize the batch, ask the model for a
// translation and tokenize the answer again.
package delegate
