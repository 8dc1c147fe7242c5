// askgate is a server-side proxy that answers front-end questions through
// the Gemini generateContent API.
//
// It tries an ordered list of models until one answers, and turns the
// provider's failures into one actionable error for the browser.
//
// Usage:
//
//	# Start the server (reads config.yaml when present, GOOGLE_API_KEY from the environment)
//	askgate serve
//
//	# List the models visible to the configured key
//	askgate models --probe 3
//
//	# Check the credential and every configured model
//	askgate diagnose
//
//	# Show recent audit records
//	askgate audit --limit 20
package main

func main() {
	Execute()
}
