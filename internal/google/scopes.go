package google

import gmail "google.golang.org/api/gmail/v1"

// Scopes are the OAuth scopes the refresh token must carry. Mail is only
// read, never modified.
var Scopes = []string{
	gmail.GmailReadonlyScope,
}
