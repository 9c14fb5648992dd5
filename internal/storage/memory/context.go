package memory

import "context"

type memoryContextKey string

// trxKey carries the id of the open transaction through the call
// chain, the way the postgres store carries its live *gorm.DB.
const trxKey memoryContextKey = "memoryTrxID"

func withTransactionID(ctx context.Context, trxID string) context.Context {
	return context.WithValue(ctx, trxKey, trxID)
}

func transactionIDFromContext(ctx context.Context) (string, bool) {
	trxID, ok := ctx.Value(trxKey).(string)

	return trxID, ok
}
