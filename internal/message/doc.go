// Package message walks mail message part trees.
//
// It resolves the primary body text of a message (plain text preferred over
// HTML), enumerates attachment parts into descriptors, and stages fetched
// attachment bytes into a scratch directory under sanitized names. Providers
// expose their own tree types through the Part interface.
package message
