package completer

import "context"

// Completer drives a chat completion model over an ordered list of
// role-tagged messages.
type Completer interface {
	// Complete returns the full generated text in one shot.
	Complete(ctx context.Context, messages []Message) (string, error)
	// CompleteJSON asks the model for a JSON object response and returns
	// the raw text of that object.
	CompleteJSON(ctx context.Context, messages []Message) (string, error)
	// Stream opens a token stream. The caller owns the returned Stream and
	// must Close it.
	Stream(ctx context.Context, messages []Message) (Stream, error)
}

// Stream yields incremental text deltas from a completion call. Recv returns
// io.EOF when the stream ends normally; any other error means the stream
// failed mid-flight.
type Stream interface {
	Recv() (string, error)
	Close() error
}
