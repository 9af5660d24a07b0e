package llm

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
func LookupCost(modelID string) *ModelCost {
	if c, ok := modelCosts[modelID]; ok {
		return &c
	}
	return nil
}

// EstimateCost sums the cost of usage rows keyed by model ID. Models without
// a price are reported in unknown.
func EstimateCost(byModel map[string][2]int) (total float64, unknown []string) {
	for model, tokens := range byModel {
		c := LookupCost(model)
		if c == nil {
			unknown = append(unknown, model)
			continue
		}
		total += c.Cost(tokens[0], tokens[1])
	}
	return total, unknown
}

// modelCosts covers the models reachable through the friendly names and
// defaults, plus common alternatives.
var modelCosts = map[string]ModelCost{
	// Google
	"gemini-1.5-flash":        {0.075, 0.3},
	"gemini-1.5-flash-latest": {0.075, 0.3},
	"gemini-1.5-flash-8b":     {0.0375, 0.15},
	"gemini-1.5-pro":          {1.25, 5},
	"gemini-1.5-pro-latest":   {1.25, 5},
	"gemini-2.0-flash":        {0.1, 0.4},
	"gemini-2.0-flash-001":    {0.1, 0.4},
	"gemini-2.5-flash":        {0.3, 2.5},
	"gemini-2.5-pro":          {1.25, 10},

	// OpenAI
	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},

	// Anthropic
	"claude-3-5-haiku-latest": {0.8, 4},
	"claude-haiku-4-5":        {1, 5},
	"claude-sonnet-4-5":       {3, 15},

	// OpenRouter IDs
	"google/gemini-2.0-flash-001": {0.1, 0.4},
	"openai/gpt-4o-mini":          {0.15, 0.6},
}
