// Package llm is the client for the remote language model.
//
// It speaks the OpenAI chat completions protocol through openai-go, so any
// compatible endpoint works; Groq is the default. Three calls are offered:
// Complete for summaries and categories, SelectFunction for function calling
// over a catalog, and CompleteWithContext to phrase executed results.
package llm
