package mirror

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"fmerge/core/filesystem"
	"fmerge/core/merge"
	"fmerge/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Mirror uploads local backups to an S3 compatible bucket.
type Mirror struct {
	client storage.Client
	bucket string
	prefix string
	fs     filesystem.Access
	logger *zap.Logger
}

// New creates a backup mirror.
func New(client storage.Client, bucket, prefix string, fs filesystem.Access, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		fs:     fs,
		logger: logger,
	}
}

// RunPrefix returns the object prefix every file of the record is stored under.
func (m *Mirror) RunPrefix(record *merge.BackupRecord) string {
	return path.Join(m.prefix, record.RunID, record.Name) + "/"
}

// ObjectKey returns the object key for a file inside the backup directory.
func (m *Mirror) ObjectKey(record *merge.BackupRecord, rel string) string {
	return m.RunPrefix(record) + filepath.ToSlash(rel)
}

// MirrorBackup uploads every file below record.Root. On failure the objects uploaded so far
// are removed again, so the bucket never holds a partial backup.
func (m *Mirror) MirrorBackup(ctx context.Context, record *merge.BackupRecord) error {
	l := m.logger.With(zap.String("run_id", record.RunID), zap.String("bucket", m.bucket))

	if err := m.ensureBucket(ctx); err != nil {
		return err
	}

	var uploaded []string
	err := m.fs.Walk(record.Root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(record.Root, p)
		if err != nil {
			return err
		}
		key := m.ObjectKey(record, rel)
		if err := m.upload(ctx, p, key, info.Size()); err != nil {
			return err
		}
		uploaded = append(uploaded, key)
		l.Debug("Mirrored backup file", zap.String("key", key))
		return nil
	})
	if err == nil {
		err = m.verify(ctx, record, len(uploaded))
	}
	if err != nil {
		l.Error("Backup mirror failed", zap.Int("uploaded", len(uploaded)), zap.Error(err))
		if cleanErr := m.removeObjects(ctx, uploaded); cleanErr != nil {
			l.Error("Failed to remove partial mirror", zap.Error(cleanErr))
		}
		return err
	}

	l.Info("Backup mirrored", zap.String("prefix", m.RunPrefix(record)), zap.Int("objects", len(uploaded)))
	return nil
}

func (m *Mirror) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", m.bucket, err)
	}
	m.logger.Info("Created mirror bucket", zap.String("bucket", m.bucket))
	return nil
}

func (m *Mirror) upload(ctx context.Context, p, key string, size int64) error {
	f, err := m.fs.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := m.client.PutObject(ctx, m.bucket, key, f, size, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	}); err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// verify lists the run prefix and checks that every uploaded file is present.
func (m *Mirror) verify(ctx context.Context, record *merge.BackupRecord, want int) error {
	got := 0
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    m.RunPrefix(record),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return fmt.Errorf("failed to list mirrored objects: %w", obj.Err)
		}
		got++
	}
	if got != want {
		return fmt.Errorf("mirror holds %d objects, expected %d", got, want)
	}
	return nil
}

func (m *Mirror) removeObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var errs []string
	for rmErr := range m.client.RemoveObjects(context.WithoutCancel(ctx), m.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", rmErr.ObjectName, rmErr.Err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("batch delete had %d errors: %v", len(errs), errs)
	}
	return nil
}
