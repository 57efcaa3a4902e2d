package filestorage

import (
	"bytes"
	"context"
	"image/color"
	"io"
	"ncp-tracker-backend/models"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	objects map[string][]byte
	types   map[string]string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memoryStorage) Put(ctx context.Context, key, contentType string, data []byte) error {
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *memoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, ObjectInfo{}, errors.Wrapf(models.ErrNotFound, "photo %v", key)
	}
	return io.NopCloser(bytes.NewReader(data)), ObjectInfo{ContentType: s.types[key], Size: int64(len(data))}, nil
}

func encodeImage(t *testing.T, format imaging.Format) []byte {
	img := imaging.New(640, 480, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, format))
	return buf.Bytes()
}

func TestUploadPhoto(t *testing.T) {
	ctx := context.Background()

	t.Run(`png with thumbnail`, func(t *testing.T) {
		storage := newMemoryStorage()
		handler := NewInstance(storage)
		view, err := handler.UploadPhoto(ctx, encodeImage(t, imaging.PNG))
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(view.Path, PhotoPrefix))
		require.True(t, strings.HasSuffix(view.Path, ".png"))
		require.Equal(t, "image/png", view.ContentType)
		require.Contains(t, storage.objects, view.Path)
		require.Contains(t, storage.objects, view.ThumbnailPath)
		require.Equal(t, "image/jpeg", storage.types[view.ThumbnailPath])

		thumb, err := imaging.Decode(bytes.NewReader(storage.objects[view.ThumbnailPath]))
		require.NoError(t, err)
		require.Equal(t, 200, thumb.Bounds().Dx())
		require.Equal(t, 150, thumb.Bounds().Dy())
	})

	t.Run(`jpeg keeps jpg extension`, func(t *testing.T) {
		view, err := NewInstance(newMemoryStorage()).UploadPhoto(ctx, encodeImage(t, imaging.JPEG))
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(view.Path, ".jpg"))
		require.Equal(t, "image/jpeg", view.ContentType)
	})

	t.Run(`rejected input`, func(t *testing.T) {
		handler := NewInstance(newMemoryStorage())
		_, err := handler.UploadPhoto(ctx, nil)
		require.True(t, models.IsValidationError(err))
		_, err = handler.UploadPhoto(ctx, []byte("%PDF-1.4 not an image"))
		require.True(t, models.IsValidationError(err))
		_, err = handler.UploadPhoto(ctx, encodeImage(t, imaging.GIF))
		require.True(t, models.IsValidationError(err))
		_, err = handler.UploadPhoto(ctx, make([]byte, MaxPhotoSize+1))
		require.True(t, models.IsValidationError(err))
	})
}

func TestGetPhoto(t *testing.T) {
	ctx := context.Background()
	storage := newMemoryStorage()
	handler := NewInstance(storage)
	view, err := handler.UploadPhoto(ctx, encodeImage(t, imaging.PNG))
	require.NoError(t, err)

	t.Run(`stream back`, func(t *testing.T) {
		body, info, err := handler.GetPhoto(ctx, "/"+view.Path)
		require.NoError(t, err)
		defer body.Close()
		data, err := io.ReadAll(body)
		require.NoError(t, err)
		require.Equal(t, storage.objects[view.Path], data)
		require.Equal(t, "image/png", info.ContentType)
	})

	t.Run(`outside the photo prefix`, func(t *testing.T) {
		for _, key := range []string{"secrets/config.yml", PhotoPrefix + "../secrets/config.yml", PhotoPrefix + "missing.png"} {
			_, _, err := handler.GetPhoto(ctx, key)
			require.True(t, errors.Is(err, models.ErrNotFound), key)
		}
	})
}
