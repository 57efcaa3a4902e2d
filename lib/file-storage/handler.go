package filestorage

import (
	"bytes"
	"context"
	"io"
	"ncp-tracker-backend/config"
	initchecker "ncp-tracker-backend/lib/utils/init-checker"
	"ncp-tracker-backend/models"
	fileapimodels "ncp-tracker-backend/models/api/file"
	s3client "ncp-tracker-backend/s3"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	PhotoPrefix    = "ncp-photos/"
	MaxPhotoSize   = 5 * 1024 * 1024
	thumbnailWidth = 200
)

var photoExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

type Provider interface {
	UploadPhoto(ctx context.Context, data []byte) (fileapimodels.PhotoView, error)
	GetPhoto(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}

var Instance Provider

func NewHandler() {
	initchecker.CheckInit(
		"s3client", s3client.Client,
	)
	Instance = NewInstance(NewMinioStorage(s3client.Client, config.Conf.S3.BucketName))
}

func NewInstance(storage ObjectStorage) Provider {
	return impl{storage: storage}
}

type impl struct {
	storage ObjectStorage
}

func (i impl) UploadPhoto(ctx context.Context, data []byte) (fileapimodels.PhotoView, error) {
	if len(data) == 0 {
		return fileapimodels.PhotoView{}, models.RequiredError("Photo")
	}
	if len(data) > MaxPhotoSize {
		return fileapimodels.PhotoView{}, models.NewValidationError("Photo must not exceed 5 MB")
	}
	contentType := mimetype.Detect(data).String()
	ext, ok := photoExtensions[contentType]
	if !ok {
		return fileapimodels.PhotoView{}, models.NewValidationError("Photo must be a JPEG or PNG image")
	}
	thumbnail, err := makeThumbnail(data)
	if err != nil {
		return fileapimodels.PhotoView{}, models.NewValidationError("Photo is not a readable image")
	}

	name := uuid.New().String()
	key := PhotoPrefix + name + ext
	thumbKey := PhotoPrefix + "thumbs/" + name + ".jpg"
	logger := log.WithField("key", key)
	if err = i.storage.Put(ctx, key, contentType, data); err != nil {
		return fileapimodels.PhotoView{}, errors.Wrap(err, "failed to store photo")
	}
	if err = i.storage.Put(ctx, thumbKey, "image/jpeg", thumbnail); err != nil {
		// the photo itself is stored, a missing preview is not fatal
		logger.WithError(err).Warn("failed to store photo thumbnail")
		thumbKey = ""
	}
	logger.WithField("size", len(data)).Info("photo uploaded")
	return fileapimodels.PhotoView{
		Path:          key,
		ThumbnailPath: thumbKey,
		ContentType:   contentType,
		Size:          int64(len(data)),
	}, nil
}

func (i impl) GetPhoto(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	key = strings.TrimPrefix(key, "/")
	if !strings.HasPrefix(key, PhotoPrefix) || path.Clean(key) != key {
		return nil, ObjectInfo{}, errors.Wrapf(models.ErrNotFound, "photo %v", key)
	}
	return i.storage.Get(ctx, key)
}

func makeThumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	thumbnail := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err = imaging.Encode(&buf, thumbnail, imaging.JPEG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
