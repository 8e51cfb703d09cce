package a2a

// CardVersion is the card version advertised by every agent in this module.
const CardVersion = "1.0.0"

// WellKnownCardPath is where an agent's card is served.
const WellKnownCardPath = "/.well-known/agent-card.json"

// AgentCapabilities advertises protocol features an agent supports.
type AgentCapabilities struct {
	Streaming bool `json:"streaming"`
}

// AgentSkill describes one capability an agent advertises on its card.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Examples    []string `json:"examples,omitempty"`
}

// AgentCard is the self-description an agent serves at its well-known path.
// The card name doubles as the metadata name stamped on every reply.
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	DefaultInputModes  []string          `json:"defaultInputModes"`
	DefaultOutputModes []string          `json:"defaultOutputModes"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	Skills             []AgentSkill      `json:"skills"`
}

// NewCard fills in the card fields shared by every agent: text in, text out,
// streaming advertised, current card version.
func NewCard(name, description, url string, skills ...AgentSkill) AgentCard {
	return AgentCard{
		Name:               name,
		Description:        description,
		URL:                url,
		Version:            CardVersion,
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
		Capabilities:       AgentCapabilities{Streaming: true},
		Skills:             skills,
	}
}
