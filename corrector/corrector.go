package corrector

import "context"

// FallbackReply is handed to the user when a correction job ends in a
// terminal failure state. It is returned without an error; callers that need
// to tell failure from success must compare against this string.
const FallbackReply = "I cannot reply at this time. Reach out to the team on Discord"

// Corrector submits a correction request to an external assistant service
// and blocks until the result is available.
type Corrector interface {
	Correct(ctx context.Context, text string) (string, error)
}
