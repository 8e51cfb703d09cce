package supervisor

import (
	"fmt"
	"strings"
)

// FallbackResponse is returned to the user when a run cannot produce a real
// answer. Delegates use the same wording for their own failures.
const FallbackResponse = "An error occurred while processing your request."

// routingPrompt builds the system prompt describing the delegate roster and
// the policy for choosing among them.
func routingPrompt(r *Registry) string {
	var b strings.Builder

	b.WriteString("You are a supervisor agent that coordinates between the following agents:\n\n")
	for _, d := range r.List() {
		fmt.Fprintf(&b, "%s: %s\n", d.DisplayName, d.Description)
	}

	b.WriteString("\nBased on the user's message, decide which agent to call:\n")
	for _, d := range r.List() {
		if d.RouteHint != "" {
			fmt.Fprintf(&b, "- %s\n", d.RouteHint)
		}
	}

	def := r.Default()
	fmt.Fprintf(&b, "\nIf you're unsure, default to %s (%s).\n", def.DisplayName, def.Name)
	b.WriteString("\nAnalyze the user's message and call the appropriate agent. ")
	b.WriteString("Once an agent has replied, answer the user directly with that reply.")

	return b.String()
}
