package types

// ProviderKind identifies the wire protocol family of an external text-generation provider
type ProviderKind string

// Provider kinds
const (
	ProviderGemini    ProviderKind = "gemini"
	ProviderOpenAI    ProviderKind = "openai"
	ProviderAnthropic ProviderKind = "anthropic"
	ProviderGroq      ProviderKind = "groq"
	ProviderTogether  ProviderKind = "together"
	ProviderCohere    ProviderKind = "cohere"
	ProviderOllama    ProviderKind = "ollama"
)

// CostClass is a coarse price band for a provider
type CostClass string

// Cost classes
const (
	CostFree   CostClass = "free"
	CostLow    CostClass = "low"
	CostMedium CostClass = "medium"
	CostHigh   CostClass = "high"
)

// ProviderDescriptor describes one configured provider. Lower priority is tried first.
type ProviderDescriptor struct {
	Name      string       `json:"name"`
	Kind      ProviderKind `json:"kind"`
	Model     string       `json:"model"`
	Priority  int          `json:"priority"`
	CostClass CostClass    `json:"cost_class"`
	RateLimit string       `json:"rate_limit,omitempty"`
}
