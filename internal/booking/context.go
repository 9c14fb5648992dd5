package booking

import "context"

type contextKey string

const accountKey contextKey = "accountID"

// NewContextWithAccount records the authenticated account making the
// request, so a committed booking can carry its owner.
func NewContextWithAccount(ctx context.Context, accountID int) context.Context {
	return context.WithValue(ctx, accountKey, accountID)
}

func AccountFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(accountKey).(int)

	return id, ok
}
