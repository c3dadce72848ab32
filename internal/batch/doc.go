// Package batch runs an operation over many items with per-item failure
// isolation.
//
// One failing item becomes an error Result and the batch continues. The
// package also parses tool arguments that accept one or many ids and renders
// JSON reports of a batch.
package batch
