package filestorage

import (
	"bytes"
	"context"
	"io"
	"ncp-tracker-backend/models"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
)

type ObjectInfo struct {
	ContentType string
	Size        int64
}

// ObjectStorage keeps photo objects in a single bucket.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}

type minioStorage struct {
	s3client   *minio.Client
	bucketName string
}

func NewMinioStorage(s3client *minio.Client, bucketName string) ObjectStorage {
	return &minioStorage{
		s3client:   s3client,
		bucketName: bucketName,
	}
}

func (i minioStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := i.s3client.PutObject(ctx, i.bucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (i minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := i.s3client.GetObject(ctx, i.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	// GetObject is lazy, Stat is the first request that reaches the server
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ObjectInfo{}, errors.Wrapf(models.ErrNotFound, "photo %v", key)
		}
		return nil, ObjectInfo{}, err
	}
	return obj, ObjectInfo{ContentType: stat.ContentType, Size: stat.Size}, nil
}
