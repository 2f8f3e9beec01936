package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"journeymap/internal/config"
)

// ObjectStore define la interfaz del almacen binario para fotos de
// perfil e imagenes descargadas del workspace.
type ObjectStore interface {
	Store(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// MinIOStore implementa ObjectStore contra un bucket de MinIO/S3.
type MinIOStore struct {
	client *minio.Client
	bucket string
}

// NewMinIOStore crea el cliente y asegura que el bucket exista.
func NewMinIOStore(ctx context.Context, cfg *config.Config) (*MinIOStore, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccess, cfg.MinIOSecret, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &MinIOStore{client: client, bucket: cfg.MinIOBucket}, nil
}

func (s *MinIOStore) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, key), nil
}

func (s *MinIOStore) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

type disabledStore struct {
	reason string
}

// NewDisabledStore devuelve un ObjectStore que rechaza toda operacion.
// Se usa cuando MinIO no esta configurado.
func NewDisabledStore(reason string) ObjectStore {
	return &disabledStore{reason: reason}
}

func (s *disabledStore) Store(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	if s.reason == "" {
		return "", errors.New("object store disabled")
	}
	return "", errors.New(s.reason)
}

func (s *disabledStore) Delete(_ context.Context, _ string) error {
	if s.reason == "" {
		return errors.New("object store disabled")
	}
	return errors.New(s.reason)
}
