package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/vcardapp/internal/card"
)

type fakeRedis struct {
	data   map[string]string
	getErr error
	setErr error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	f.data[key] = value.(string)
	return redis.NewStatusResult("OK", nil)
}

func sampleDoc() card.Document {
	doc := card.Default()
	doc.Name.Text = "Ada"
	doc.Services = append(doc.Services, card.NewService("Analysis", 0))
	doc.ProfileImage.ImageRef = "asset:ada.png"
	doc.DesignStyle.Pattern = card.PatternGrid
	return doc
}

func TestRedisStoreRoundTrip(t *testing.T) {
	fr := &fakeRedis{data: map[string]string{}}
	s := NewRedisStore(fr, "")
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	doc := sampleDoc()
	require.NoError(t, s.Save(ctx, doc))
	assert.Contains(t, fr.data, DefaultKey)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestRedisStoreRejectsInvalidBlob(t *testing.T) {
	fr := &fakeRedis{data: map[string]string{
		DefaultKey: `{"designStyle": {"pattern": "zigzag"}}`,
	}}
	_, err := NewRedisStore(fr, DefaultKey).Load(context.Background())
	var verr *card.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRedisStoreSurfacesErrors(t *testing.T) {
	boom := errors.New("connection refused")
	fr := &fakeRedis{data: map[string]string{}, getErr: boom, setErr: boom}
	s := NewRedisStore(fr, "k")

	assert.ErrorIs(t, s.Save(context.Background(), card.Default()), boom)
	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestDecodeToleratesOlderShapes(t *testing.T) {
	doc, err := Decode([]byte(`{"name": {"text": "Ivan"}, "qrCodeStyle": "modern1", "backgroundImage": null}`))
	require.NoError(t, err)
	assert.Equal(t, "Ivan", doc.Name.Text)
	assert.Equal(t, card.DefaultFont, doc.Name.Font)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "design.json")
	s := NewFileStore(path)
	ctx := context.Background()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	doc := sampleDoc()
	require.NoError(t, s.Save(ctx, doc))
	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}
