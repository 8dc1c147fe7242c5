// Package types defines the JSON bodies exchanged with askgate clients.
//
// Request:
//
//	POST /api/ask
//	{"question": "How do I center a div?"}
//
// Success:
//
//	{"response": "Use flexbox...", "modelUsed": "gemini-2.5-flash"}
//
// Failure:
//
//	{
//	  "error": "The model quota was exceeded. Please try again later.",
//	  "category": "RateLimited",
//	  "details": {"error": {"code": 429, "message": "...", "status": "RESOURCE_EXHAUSTED"}},
//	  "modeloTentado": "gemini-2.5-flash",
//	  "attempts": [{"model": "gemini-2.5-flash", "status": 429}]
//	}
package types
