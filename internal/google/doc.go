// Package google turns a stored OAuth refresh token into authenticated HTTP
// clients for Google APIs.
//
// The refresh token is obtained once, outside this program, for the account
// whose mail is summarized. Access tokens are minted from it on demand and
// reused until they expire.
package google
