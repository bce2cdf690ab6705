package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxnFunc is the body of an atomic multi-document commit. Every read and write
// inside it must go through the supplied context so it joins the session.
type TxnFunc func(ctx context.Context) error

// WithTransaction runs fn inside a MongoDB multi-document transaction so that
// all staged writes apply together or not at all.
//
// Standalone deployments (no replica set) do not support transactions. In that
// case fn is replayed without a session and writes become sequential, with
// partial-failure exposure. Keep test and production deployments on a replica
// set to get the real guarantee.
func WithTransaction(ctx context.Context, client *mongo.Client, fn TxnFunc) error {
	session, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	if err == nil {
		return nil
	}

	if isTxnUnsupported(err) {
		return fn(ctx)
	}
	return err
}

// isTxnUnsupported detects the server complaining that transactions require a
// replica set or mongos.
func isTxnUnsupported(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		// 20 = IllegalOperation, the code standalone servers answer with
		if ce.Code == 20 && strings.Contains(ce.Message, "Transaction") {
			return true
		}
	}
	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}
