package db

import (
	"context"

	"cloud.google.com/go/firestore"

	"go-sentinel/types"
)

// FirestoreRelay adapts the Firestore sample store to the tracker's relay
// sink interface.
type FirestoreRelay struct {
	Client *firestore.Client
}

func (r FirestoreRelay) StoreLocation(ctx context.Context, subjectID string, pos types.Position) error {
	return StoreLocation(ctx, r.Client, subjectID, pos)
}
