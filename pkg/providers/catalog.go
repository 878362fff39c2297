package providers

// catalog is the static provider table. It is never handed out directly;
// every accessor returns copies.
var catalog = []Provider{
	{
		ID:   Anthropic,
		Name: "Anthropic",
		Models: []Model{
			{ID: "claude-opus-4-20250514", Name: "Claude Opus 4", Description: "Latest flagship model"},
			{ID: "claude-sonnet-4-20250514", Name: "Claude Sonnet 4", Description: "Latest high-performance model"},
			{ID: "claude-3-7-sonnet-20250219", Name: "Claude Sonnet 3.7", Description: "Improved high-performance model"},
			{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Description: "High-performance model"},
			{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Description: "Fast and efficient model"},
			{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", Description: "High-performance model"},
			{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Description: "Fast model"},
		},
	},
	{
		ID:   OpenAI,
		Name: "OpenAI",
		Models: []Model{
			{ID: "gpt-4o", Name: "GPT-4o", Description: "Latest high-performance multimodal model"},
			{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Fast and efficient multimodal model"},
			{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "Fast high-performance model"},
			{ID: "gpt-4", Name: "GPT-4", Description: "High-performance language model"},
			{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast and efficient model"},
		},
	},
	{
		ID:   Gemini,
		Name: "Google",
		Models: []Model{
			{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Description: "Latest fast model"},
			{ID: "gemini-1.5-pro", Name: "Gemini 1.5 Pro", Description: "High-performance multimodal model"},
			{ID: "gemini-1.5-flash", Name: "Gemini 1.5 Flash", Description: "Fast and efficient model"},
		},
	},
}

// ListProviders returns every provider in catalogue order.
func ListProviders() []Provider {
	out := make([]Provider, len(catalog))
	for i, p := range catalog {
		out[i] = clone(p)
	}
	return out
}

// GetProvider looks up a provider by identifier.
func GetProvider(id ProviderID) (Provider, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return clone(p), true
		}
	}
	return Provider{}, false
}

// ListModels returns the models of a provider, or an empty list when the
// provider is unknown.
func ListModels(id ProviderID) []Model {
	p, ok := GetProvider(id)
	if !ok {
		return []Model{}
	}
	return p.Models
}

// FindModel looks up a model within a provider.
func FindModel(id ProviderID, modelID string) (Model, bool) {
	for _, p := range catalog {
		if p.ID != id {
			continue
		}
		for _, m := range p.Models {
			if m.ID == modelID {
				return m, true
			}
		}
	}
	return Model{}, false
}

// IsValidModel reports whether modelID belongs to provider id.
func IsValidModel(id ProviderID, modelID string) bool {
	_, ok := FindModel(id, modelID)
	return ok
}

// IsKnownProvider reports whether id is in the catalogue.
func IsKnownProvider(id ProviderID) bool {
	_, ok := GetProvider(id)
	return ok
}

func clone(p Provider) Provider {
	p.Models = append([]Model(nil), p.Models...)
	return p
}
