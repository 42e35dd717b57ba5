// Package prompt holds the review instructions sent to the model.
package prompt

import "fmt"

// Version identifies the current revision of the review template.
// Bump it whenever the wording below changes.
const Version = "v1.0"

// Prefix is the fixed instruction block that precedes the submitted code.
const Prefix = `You are a senior software engineer. Review the following code:
1. Find bugs
2. Suggest improvements
3. Optimize it
4. Provide refactored code`

// Suffix asks for headed, structured output.
const Suffix = "Please provide a structured response with clear headings."

// Build returns the full request text for source. The source is embedded
// verbatim inside a fenced block.
func Build(source string) string {
	return fmt.Sprintf("%s\n\nCode:\n```\n%s\n```\n\n%s", Prefix, source, Suffix)
}
