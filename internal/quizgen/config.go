package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature, TopK and TopP are passed through to the provider.
	Temperature float64
	TopK        int
	TopP        float64

	// MaxQuestions caps a single request.
	MaxQuestions int
}

// DefaultConfig returns the generation settings used for every provider.
func DefaultConfig() Config {
	return Config{
		MaxTokens:    2048,
		Temperature:  0.7,
		TopK:         40,
		TopP:         0.95,
		MaxQuestions: 50,
	}
}

// Counts lists the question counts offered by the interactive front ends.
var Counts = []int{5, 10, 15, 20}

// DefaultCount is the question count used when none is given.
const DefaultCount = 5
