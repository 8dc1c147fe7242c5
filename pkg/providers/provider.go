package providers

import "context"

// Completer performs one completion call against one model.
//
// Implementations must make at most one outbound call, respect context
// cancellation, and report every problem through the returned Outcome
// rather than a separate error.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) Outcome
}

// ModelInfo describes a model advertised by the provider.
type ModelInfo struct {
	// Name is the bare model identifier (without the "models/" prefix).
	Name string `json:"name"`

	// DisplayName is the human-readable name.
	DisplayName string `json:"displayName"`

	// Methods lists the supported generation methods.
	Methods []string `json:"supportedGenerationMethods"`
}

// Supports reports whether the model advertises method.
func (m ModelInfo) Supports(method string) bool {
	for _, v := range m.Methods {
		if v == method {
			return true
		}
	}
	return false
}

// ModelLister lists the models visible to the current credential.
type ModelLister interface {
	ListModels(ctx context.Context, apiVersion string) ([]ModelInfo, error)
}
