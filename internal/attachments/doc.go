// Package attachments turns staged attachment files into prompt text.
//
// A Pipeline classifies each attachment by filename suffix, runs the
// extractor for its format, applies per-kind limits and reports one
// Extracted entry per attachment. Summarize renders those entries as the
// attachment block of a summary prompt, and Cleanup removes the staged files
// afterwards.
package attachments
