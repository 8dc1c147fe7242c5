// Package secrets resolves ${secret:name} references in configuration
// values.
//
// askgate only needs one secret, the Gemini API key, but operators often
// cannot put it in the config file or in GOOGLE_API_KEY directly. A value
// such as
//
//	upstream:
//	  api_key: ${secret:google-api-key}
//
// is resolved against the providers in order:
//
//   - EnvProvider: ASKGATE_SECRET_GOOGLE_API_KEY
//   - FileProvider: <secrets.dir>/google-api-key (mode 0600 or 0400)
//
// Values are re-read on every resolution, so a rotated file is picked up by
// the next configuration reload.
package secrets
