package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"frontmentor/askgate/pkg/providers"
)

// MethodGenerateContent is the generation method the proxy relies on.
const MethodGenerateContent = "generateContent"

type listModelsResponse struct {
	Models        []providers.ModelInfo `json:"models"`
	NextPageToken string                `json:"nextPageToken"`
}

// maxListPages bounds pagination of models.list.
const maxListPages = 20

// ListModels lists the models visible to the current credential under
// apiVersion ("v1beta", "v1", ...). An empty version uses the client's
// configured version. A non-2xx answer is returned as a *providers.Failure.
func (c *Client) ListModels(ctx context.Context, apiVersion string) ([]providers.ModelInfo, error) {
	if apiVersion == "" {
		apiVersion = c.Config().APIVersion
	}

	var (
		models []providers.ModelInfo
		token  string
	)
	for page := 0; page < maxListPages; page++ {
		resp, err := c.DoRequest(ctx, http.MethodGet, c.listModelsURL(apiVersion, token), nil, nil)
		if err != nil {
			return nil, providers.TransportFailure(err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, transformError(resp)
		}

		var parsed listModelsResponse
		if err := json.Unmarshal(resp.Body, &parsed); err != nil {
			return nil, fmt.Errorf("gemini: failed to decode model list: %w", err)
		}
		for _, m := range parsed.Models {
			m.Name = strings.TrimPrefix(m.Name, "models/")
			models = append(models, m)
		}

		if parsed.NextPageToken == "" {
			break
		}
		token = parsed.NextPageToken
	}

	return models, nil
}

func (c *Client) listModelsURL(apiVersion, pageToken string) string {
	q := url.Values{}
	q.Set("key", c.APIKey())
	if pageToken != "" {
		q.Set("pageToken", pageToken)
	}
	return fmt.Sprintf("%s/%s/models?%s", c.Config().BaseURL, apiVersion, q.Encode())
}
