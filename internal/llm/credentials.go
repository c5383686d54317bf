package llm

import (
	"sort"
	"strings"

	"github.com/jonathan/docsynth/internal/types"
)

// Credentials maps a provider kind to its API key, or to its base URL for local providers
type Credentials map[types.ProviderKind]string

type registration struct {
	kind      types.ProviderKind
	envVar    string
	name      string
	priority  int
	cost      types.CostClass
	rateLimit string
}

// registry lists every supported provider in fallback priority order
var registry = []registration{
	{kind: types.ProviderGemini, envVar: "GEMINI_API_KEY", name: "Google Gemini", priority: 1, cost: types.CostLow, rateLimit: "60 requests/min"},
	{kind: types.ProviderOpenAI, envVar: "OPENAI_API_KEY", name: "OpenAI GPT", priority: 2, cost: types.CostHigh, rateLimit: "tier based"},
	{kind: types.ProviderAnthropic, envVar: "ANTHROPIC_API_KEY", name: "Anthropic Claude", priority: 3, cost: types.CostMedium, rateLimit: "tier based"},
	{kind: types.ProviderGroq, envVar: "GROQ_API_KEY", name: "Groq Llama 3 70B", priority: 4, cost: types.CostFree, rateLimit: "30 requests/min"},
	{kind: types.ProviderTogether, envVar: "TOGETHER_API_KEY", name: "Together Mixtral", priority: 5, cost: types.CostFree, rateLimit: "60 requests/min"},
	{kind: types.ProviderCohere, envVar: "COHERE_API_KEY", name: "Cohere Command", priority: 6, cost: types.CostFree, rateLimit: "20 requests/min"},
	{kind: types.ProviderOllama, envVar: "OLLAMA_URL", name: "Ollama (local)", priority: 7, cost: types.CostFree},
}

// EnvVar returns the environment variable that configures a provider kind
func EnvVar(kind types.ProviderKind) string {
	for _, r := range registry {
		if r.kind == kind {
			return r.envVar
		}
	}
	return ""
}

// CredentialsFromEnv reads provider credentials through getenv (usually os.Getenv)
func CredentialsFromEnv(getenv func(string) string) Credentials {
	creds := Credentials{}
	for _, r := range registry {
		if v := strings.TrimSpace(getenv(r.envVar)); v != "" {
			creds[r.kind] = v
		}
	}
	return creds
}

// AllDescriptors describes every supported provider, configured or not, in priority order
func AllDescriptors(cfg *Config) []types.ProviderDescriptor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	out := make([]types.ProviderDescriptor, 0, len(registry))
	for _, r := range registry {
		out = append(out, types.ProviderDescriptor{
			Name:      r.name,
			Kind:      r.kind,
			Model:     cfg.GetModel(r.kind),
			Priority:  r.priority,
			CostClass: r.cost,
			RateLimit: r.rateLimit,
		})
	}
	return out
}

// Detect returns descriptors for the providers that have credentials, sorted by priority
func Detect(creds Credentials, cfg *Config) []types.ProviderDescriptor {
	var out []types.ProviderDescriptor
	for _, d := range AllDescriptors(cfg) {
		if creds[d.Kind] != "" {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}
