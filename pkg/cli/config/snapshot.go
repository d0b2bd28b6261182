package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/orgwatch/pkg/domain/interfaces"
	"github.com/m-mizutani/orgwatch/pkg/domain/types"
	"github.com/m-mizutani/orgwatch/pkg/infra/snapshot"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Snapshot holds snapshot store configuration
type Snapshot struct {
	Backend string

	Path string

	GCSBucket string
	GCSObject string

	FirestoreProjectID  string
	FirestoreDatabaseID string
	FirestoreCollection string
	FirestoreDocument   string

	CredentialsFile string
}

// Flags returns CLI flags for snapshot configuration
func (c *Snapshot) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "snapshot-backend",
			Usage:       "Snapshot backend (file, gcs, firestore)",
			Value:       "file",
			Destination: &c.Backend,
			Sources:     cli.EnvVars("ORGWATCH_SNAPSHOT_BACKEND"),
		},
		&cli.StringFlag{
			Name:        "snapshot-path",
			Usage:       "Snapshot file path for the file backend",
			Value:       "orgwatch-state.json",
			Destination: &c.Path,
			Sources:     cli.EnvVars("ORGWATCH_SNAPSHOT_PATH"),
		},
		&cli.StringFlag{
			Name:        "snapshot-gcs-bucket",
			Usage:       "Cloud Storage bucket for the gcs backend",
			Destination: &c.GCSBucket,
			Sources:     cli.EnvVars("ORGWATCH_SNAPSHOT_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "snapshot-gcs-object",
			Usage:       "Cloud Storage object name for the gcs backend",
			Value:       "orgwatch/state.json",
			Destination: &c.GCSObject,
			Sources:     cli.EnvVars("ORGWATCH_SNAPSHOT_GCS_OBJECT"),
		},
		&cli.StringFlag{
			Name:        "snapshot-firestore-project-id",
			Usage:       "Google Cloud project ID for the firestore backend",
			Destination: &c.FirestoreProjectID,
			Sources:     cli.EnvVars("ORGWATCH_SNAPSHOT_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "snapshot-firestore-database-id",
			Usage:       "Firestore database ID (default database if empty)",
			Destination: &c.FirestoreDatabaseID,
			Sources:     cli.EnvVars("ORGWATCH_SNAPSHOT_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "snapshot-firestore-collection",
			Usage:       "Firestore collection for the firestore backend",
			Value:       "orgwatch",
			Destination: &c.FirestoreCollection,
			Sources:     cli.EnvVars("ORGWATCH_SNAPSHOT_FIRESTORE_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "snapshot-firestore-document",
			Usage:       "Firestore document ID for the firestore backend",
			Value:       "state",
			Destination: &c.FirestoreDocument,
			Sources:     cli.EnvVars("ORGWATCH_SNAPSHOT_FIRESTORE_DOCUMENT"),
		},
		&cli.StringFlag{
			Name:        "google-credentials-file",
			Usage:       "Service account credentials for gcs/firestore (application default credentials if empty)",
			Destination: &c.CredentialsFile,
			Sources:     cli.EnvVars("ORGWATCH_GOOGLE_CREDENTIALS_FILE"),
		},
	}
}

func (c *Snapshot) clientOptions() []option.ClientOption {
	if c.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}
}

// Build creates the configured snapshot store. The returned function releases
// its resources.
func (c *Snapshot) Build(ctx context.Context) (interfaces.SnapshotStore, func(), error) {
	switch c.Backend {
	case "file", "":
		if c.Path == "" {
			return nil, nil, goerr.New("snapshot path is required", goerr.T(types.ErrTagConfig))
		}
		return snapshot.NewFileStore(c.Path), func() {}, nil

	case "gcs":
		if c.GCSBucket == "" || c.GCSObject == "" {
			return nil, nil, goerr.New("GCS bucket and object are required", goerr.T(types.ErrTagConfig))
		}
		store, err := snapshot.NewGCSStore(ctx, c.GCSBucket, c.GCSObject, c.clientOptions()...)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "firestore":
		if c.FirestoreProjectID == "" {
			return nil, nil, goerr.New("Firestore project ID is required", goerr.T(types.ErrTagConfig))
		}
		store, err := snapshot.NewFirestoreStore(ctx,
			c.FirestoreProjectID,
			c.FirestoreDatabaseID,
			c.FirestoreCollection,
			c.FirestoreDocument,
			c.clientOptions()...,
		)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	default:
		return nil, nil, goerr.New("unknown snapshot backend", goerr.T(types.ErrTagConfig), goerr.V("backend", c.Backend))
	}
}
