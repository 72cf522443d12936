package db

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-sentinel/types"
)

const (
	subjectsCollection = "subjects"
	samplesCollection  = "samples"
)

// StoreLocation appends one relayed sample to the subject's history and
// refreshes the subject's lastSeen marker.
func StoreLocation(ctx context.Context, client *firestore.Client, subjectID string, pos types.Position) error {
	subjectDoc := client.Collection(subjectsCollection).Doc(subjectID)

	_, _, err := subjectDoc.Collection(samplesCollection).Add(ctx, map[string]interface{}{
		"lat":        pos.Latitude,
		"lng":        pos.Longitude,
		"recordedAt": pos.CapturedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to store sample for %s: %w", subjectID, err)
	}

	_, err = subjectDoc.Set(ctx, map[string]interface{}{
		"lastSeen": pos.CapturedAt,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update lastSeen for %s: %w", subjectID, err)
	}
	return nil
}

// GetLocationHistory returns the subject's samples newest first, the order
// the police history view renders them in. limit <= 0 means no limit.
func GetLocationHistory(ctx context.Context, client *firestore.Client, subjectID string, limit int) ([]types.Position, error) {
	query := client.Collection(subjectsCollection).
		Doc(subjectID).
		Collection(samplesCollection).
		OrderBy("recordedAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var history []types.Position
	iter := query.Documents(ctx)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating samples for %s: %w", subjectID, err)
		}
		var pos types.Position
		if err := doc.DataTo(&pos); err != nil {
			return nil, fmt.Errorf("error converting sample document: %w", err)
		}
		history = append(history, pos)
	}
	return history, nil
}

// UpsertSubject creates or refreshes the subject record the police search
// runs against.
func UpsertSubject(ctx context.Context, client *firestore.Client, subject types.Subject) error {
	if subject.ID == "" {
		return fmt.Errorf("subject id is required")
	}
	if subject.LastSeen.IsZero() {
		subject.LastSeen = time.Now()
	}
	_, err := client.Collection(subjectsCollection).Doc(subject.ID).Set(ctx, map[string]interface{}{
		"name":     subject.Name,
		"phone":    subject.Phone,
		"lastSeen": subject.LastSeen,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to upsert subject %s: %w", subject.ID, err)
	}
	return nil
}

// GetSubject fetches one subject record. A missing document is reported as
// (zero, false) rather than an error.
func GetSubject(ctx context.Context, client *firestore.Client, subjectID string) (types.Subject, bool, error) {
	var subject types.Subject
	doc, err := client.Collection(subjectsCollection).Doc(subjectID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return subject, false, nil
		}
		return subject, false, fmt.Errorf("error getting subject %s: %w", subjectID, err)
	}
	if err := doc.DataTo(&subject); err != nil {
		return subject, false, fmt.Errorf("error converting subject document: %w", err)
	}
	subject.ID = doc.Ref.ID
	return subject, true, nil
}

// prefixEnd returns the exclusive upper bound for a Firestore prefix
// scan: every string starting with prefix sorts before prefix+"".
func prefixEnd(prefix string) string {
	return prefix + ""
}

// SearchSubjects finds subjects whose name starts with the query string,
// for the police dashboard search box.
func SearchSubjects(ctx context.Context, client *firestore.Client, namePrefix string, limit int) ([]types.Subject, error) {
	query := client.Collection(subjectsCollection).
		Where("name", ">=", namePrefix).
		Where("name", "<", prefixEnd(namePrefix))
	if limit > 0 {
		query = query.Limit(limit)
	}

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("error searching subjects: %w", err)
	}

	var subjects []types.Subject
	for _, doc := range docs {
		var subject types.Subject
		if err := doc.DataTo(&subject); err != nil {
			return nil, fmt.Errorf("error converting subject document: %w", err)
		}
		subject.ID = doc.Ref.ID
		subjects = append(subjects, subject)
	}
	return subjects, nil
}
