// Textstudio formats and generates text through a configurable LLM provider.
//
// It talks to one of six backends (mock, Hugging Face, OpenAI, Azure OpenAI,
// Anthropic, GitHub Models) selected by configuration, and exposes the same
// features as an HTTP API.
//
// Usage:
//
//	# Start the HTTP API
//	textstudio serve
//
//	# Reformat text as a blog post
//	echo "notes from the meetup" | textstudio format --style blog
//
//	# Generate a story in English from keywords
//	textstudio generate --style story --language english "lighthouse, storm"
//
//	# Switch provider and persist the choice
//	textstudio config set provider=openai token=sk-... model=gpt-4o
//
//	# Show version information
//	textstudio version
package main

import "os"

func main() {
	os.Exit(Execute())
}
