package ai

import "context"

// GenerationRequest carries a fully rendered prompt and the sampling
// parameters for a single completion call. It is built per invocation and
// never reused.
type GenerationRequest struct {
	Prompt           string
	Model            string
	MaxTokens        int
	Temperature      float32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
}

// GenerationOutcome is the terminal result of a resilient invocation: either
// generated text or the last classified failure.
type GenerationOutcome struct {
	Success bool
	Text    string
	Failure *ClassifiedError
}

// Generator describes an AI model capable of producing feedback text.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}
