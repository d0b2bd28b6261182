package snapshot

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// firestoreRecord is the document layout. The snapshot is stored as one JSON
// string so that the whole baseline is replaced by a single write.
type firestoreRecord struct {
	State     string    `firestore:"state"`
	UpdatedAt time.Time `firestore:"updated_at"`
	Version   string    `firestore:"version"`
}

// FirestoreStore keeps the snapshot in a single Firestore document
type FirestoreStore struct {
	client     *firestore.Client
	collection string
	document   string
}

// NewFirestoreStore creates a store backed by collection/document in the given
// database. An empty databaseID selects the default database.
func NewFirestoreStore(ctx context.Context, projectID, databaseID, collection, document string, opts ...option.ClientOption) (*FirestoreStore, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}

	return &FirestoreStore{
		client:     client,
		collection: collection,
		document:   document,
	}, nil
}

// Close releases the underlying client
func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

// Load reads the snapshot document. A missing or unparsable document yields
// an empty snapshot.
func (s *FirestoreStore) Load(ctx context.Context) *model.Snapshot {
	logger := ctxlog.From(ctx).With("collection", s.collection, "document", s.document)

	doc, err := s.client.Collection(s.collection).Doc(s.document).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			logger.Info("No snapshot found, starting from empty state")
		} else {
			logger.Warn("Failed to get snapshot document, starting from empty state", "error", err)
		}
		return model.NewSnapshot()
	}

	var record firestoreRecord
	if err := doc.DataTo(&record); err != nil {
		logger.Warn("Failed to read snapshot document, starting from empty state", "error", err)
		return model.NewSnapshot()
	}

	snap, err := decode([]byte(record.State))
	if err != nil {
		logger.Warn("Failed to parse snapshot document, starting from empty state", "error", err)
		return model.NewSnapshot()
	}

	return snap
}

// Save overwrites the snapshot document
func (s *FirestoreStore) Save(ctx context.Context, snap *model.Snapshot) error {
	raw, err := encode(snap)
	if err != nil {
		return err
	}

	record := &firestoreRecord{
		State:     string(raw),
		UpdatedAt: time.Now().UTC(),
		Version:   types.Version,
	}

	if _, err := s.client.Collection(s.collection).Doc(s.document).Set(ctx, record); err != nil {
		return goerr.Wrap(err, "failed to write snapshot document",
			goerr.V("collection", s.collection),
			goerr.V("document", s.document),
		)
	}

	ctxlog.From(ctx).Debug("Saved snapshot", "collection", s.collection, "document", s.document, "size", len(raw))
	return nil
}
