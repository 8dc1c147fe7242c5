// Package gemini implements the upstream client for Google's Generative
// Language API.
//
// Complete performs a single generateContent call:
//
//	POST {base}/{version}/models/{model}:generateContent?key={key}
//	{"contents":[{"role":"user","parts":[{"text": prompt}]}]}
//
// and normalizes the answer into a providers.Outcome. The text of the first
// candidate's parts is concatenated on success. Error bodies contribute
// error.message, and a 2xx body without usable text is reported as a
// status-200 Failure.
//
// ListModels backs the operator tooling that shows which models a key can
// reach.
package gemini
