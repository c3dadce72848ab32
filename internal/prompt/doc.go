// Package prompt assembles the bounded prompts sent to the language model.
//
// Bodies are cleaned and truncated to a Budget with explicit markers before
// they are placed into fixed templates. Nothing here calls the model.
package prompt
