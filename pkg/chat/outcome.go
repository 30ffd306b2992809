package chat

import (
	"context"
	"errors"

	"tougpt/pkg/api"
)

// classifyOutcome maps a request result to the assistant message content, the
// banner text (empty on success), and whether the title may be derived.
func classifyOutcome(ctx context.Context, resp api.AskResponse, err error) (content, banner string, deriveTitle bool) {
	if err == nil {
		if resp.Answer == "" {
			return TextServerError, "", true
		}
		return resp.Answer, "", true
	}

	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		answer := resp.Answer
		if answer == "" {
			answer = statusErr.Answer
		}
		if answer == "" {
			answer = TextServerError
		}
		return answer, answer, true
	}

	if isTimeout(ctx, err) {
		return TextTimeout, TextTimeout, false
	}
	// Transport failures and unparseable bodies look the same to the user.
	return TextNoConnection, TextNoConnection, false
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, api.ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(ctx.Err(), context.DeadlineExceeded)
}
