package kv

import (
	"context"
	"io"
	"log/slog"

	"rewards/internal/errors"

	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"
)

type blobStore struct {
	bucket *blob.Bucket
	logger *slog.Logger
}

// OpenBlob opens a gocloud bucket URL such as "mem://" or "file:///var/lib/rewards".
func OpenBlob(ctx context.Context, url string, logger *slog.Logger) (Store, error) {
	bucket, err := blob.OpenBucket(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", url)
	}

	return &blobStore{
		bucket: bucket,
		logger: logger.With("component", "kv.blob"),
	}, nil
}

func (s *blobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.bucket.ReadAll(ctx, key)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrNotFound
		}

		return nil, errors.Wrapf(err, "blob read %s", key)
	}

	return data, nil
}

func (s *blobStore) Put(ctx context.Context, key string, value []byte) error {
	if err := s.bucket.WriteAll(ctx, key, value, &blob.WriterOptions{ContentType: "application/json"}); err != nil {
		return errors.Wrapf(err, "blob write %s", key)
	}

	return nil
}

func (s *blobStore) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil
		}

		return errors.Wrapf(err, "blob delete %s", key)
	}

	return nil
}

func (s *blobStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iter := s.bucket.List(&blob.ListOptions{Prefix: prefix})
	for {
		obj, err := iter.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "blob list %s", prefix)
		}
		keys = append(keys, obj.Key)
	}

	return keys, nil
}

func (s *blobStore) Close() error {
	s.logger.Debug("Closing bucket")

	return errors.WithStack(s.bucket.Close())
}
