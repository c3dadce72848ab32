// Package gmail reads unread mail through the Gmail API.
//
// Client implements the inbox provider contract: it lists unread message
// ids, fetches full messages as message.Envelope values whose part tree is
// backed directly by the API payload, and downloads attachment bytes on
// demand. Inline part bodies are base64url decoded lazily, only for the parts
// the body walker actually reads.
//
// Every API call is traced and recorded under the "gmail" provider label
// when instrumentation is configured.
package gmail
