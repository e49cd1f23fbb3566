// Package tokens estimates prompt sizes for chat completion requests.
package tokens

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sashabaranov/go-openai"
)

// Per-message framing overhead of the chat completion format, per the
// OpenAI token counting guide.
const (
	tokensPerMessage = 4
	tokensPerRequest = 3
)

// Count returns the token count of the whole chat prompt for the given
// model.
func Count(messages []openai.ChatCompletionMessage, model string) (int, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return 0, fmt.Errorf("failed to get encoding for model %s: %w", model, err)
	}
	count := tokensPerRequest
	for _, message := range messages {
		count += tokensPerMessage
		count += len(encoding.Encode(message.Role, nil, nil))
		count += len(encoding.Encode(message.Content, nil, nil))
	}
	return count, nil
}
