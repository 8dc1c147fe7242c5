// Package proxy holds the HTTP plumbing shared by the askgate handlers:
// decoding the ask request, mapping classified errors to JSON envelopes and
// writing responses.
//
// # Layout
//
//   - handlers: /api/ask and /health
//   - middleware: request ID, logging, recovery, CORS, timeout, metrics
//   - types: the JSON bodies exchanged with the front-end
//
// # Response shapes
//
// Success:
//
//	{"response": "...", "modelUsed": "gemini-2.5-flash"}
//
// Failure, with diagnostics when server.expose_diagnostics is set:
//
//	{"error": "...", "category": "NotFound", "modeloTentado": "gemini-pro-latest",
//	 "attempts": [{"model": "...", "status": 404}], "requestId": "..."}
//
// The "modeloTentado" key is kept for compatibility with the existing
// front-end.
package proxy
