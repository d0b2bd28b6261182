package snapshot

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/model"
	"google.golang.org/api/option"
)

// GCSStore keeps the snapshot in a Cloud Storage object. An object only
// becomes visible once its upload is finalized, so a failed Save leaves the
// previous object in place.
type GCSStore struct {
	client *storage.Client
	bucket string
	object string
}

// NewGCSStore creates a store backed by gs://bucket/object
func NewGCSStore(ctx context.Context, bucket, object string, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}

	return &GCSStore{
		client: client,
		bucket: bucket,
		object: object,
	}, nil
}

// Close releases the underlying client
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) handle() *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.object)
}

// Load reads the snapshot object. A missing or unparsable object yields an
// empty snapshot.
func (s *GCSStore) Load(ctx context.Context) *model.Snapshot {
	logger := ctxlog.From(ctx).With("bucket", s.bucket, "object", s.object)

	r, err := s.handle().NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			logger.Info("No snapshot found, starting from empty state")
		} else {
			logger.Warn("Failed to open snapshot object, starting from empty state", "error", err)
		}
		return model.NewSnapshot()
	}
	defer r.Close()

	raw, err := io.ReadAll(r)
	if err != nil {
		logger.Warn("Failed to read snapshot object, starting from empty state", "error", err)
		return model.NewSnapshot()
	}

	snap, err := decode(raw)
	if err != nil {
		logger.Warn("Failed to parse snapshot object, starting from empty state", "error", err)
		return model.NewSnapshot()
	}

	return snap
}

// Save uploads the snapshot as a new generation of the object
func (s *GCSStore) Save(ctx context.Context, snap *model.Snapshot) error {
	raw, err := encode(snap)
	if err != nil {
		return err
	}

	// Cancelling the writer's context aborts the upload without finalizing it.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.handle().NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(raw); err != nil {
		cancel()
		_ = w.Close()
		return goerr.Wrap(err, "failed to upload snapshot",
			goerr.V("bucket", s.bucket),
			goerr.V("object", s.object),
		)
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize snapshot upload",
			goerr.V("bucket", s.bucket),
			goerr.V("object", s.object),
		)
	}

	ctxlog.From(ctx).Debug("Saved snapshot", "bucket", s.bucket, "object", s.object, "size", len(raw))
	return nil
}
