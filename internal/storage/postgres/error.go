package postgres

import "errors"

var ErrTransactionNotFound = errors.New("no transaction found in ctx")
