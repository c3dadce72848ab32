// Package command answers free-text instructions about the inbox.
//
// Instructions go through two stages. The rule stage recognizes sender
// lookups ("emails from github") and runs them directly. Anything else is
// sent to the model together with the operation catalog; the operations the
// model selects are executed against the registry and, unless the first one
// already produced a reply, the model phrases the results.
package command
