package turn

import (
	"github.com/patrolscribe/assistant/completer"
	"github.com/patrolscribe/assistant/retriever"
	"github.com/patrolscribe/assistant/store"
)

// assemble builds the ordered prompt for a streaming turn: the system
// preamble, one system message per retrieved chunk in rank order, then the
// full conversation history in chronological order.
func assemble(systemPrompt string, chunks []retriever.Chunk, history []store.Message) []completer.Message {
	messages := make([]completer.Message, 0, 1+len(chunks)+len(history))

	messages = append(messages, completer.System(systemPrompt))

	for _, chunk := range chunks {
		messages = append(messages, completer.System("Relevant document:\n\n"+chunk.Text))
	}

	for _, msg := range history {
		if msg.FromUser {
			messages = append(messages, completer.User(msg.Text))
		} else {
			messages = append(messages, completer.Assistant(msg.Text))
		}
	}

	return messages
}
