// Package backup snapshots the SQLite database, encrypts it and keeps a
// rolling set of archives in S3-compatible storage.
package backup

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	_ "modernc.org/sqlite"
)

// ErrNotConfigured is returned when the bucket, credentials or passphrase are missing.
var ErrNotConfigured = errors.New("backup not configured")

const keyTimeLayout = "2006-01-02T150405Z"

// s3Client is an interface for testability.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, input *s3.DeleteObjectInput, opts ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *s3.ListObjectsV2Input, opts ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config holds S3-compatible storage and archive settings.
type Config struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Prefix     string
	Passphrase string
	Retain     int
}

func (c Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != "" && c.Passphrase != ""
}

// Manager takes encrypted snapshots of a database.
type Manager struct {
	cfg    Config
	db     *sql.DB
	client s3Client
	logger *slog.Logger
	now    func() time.Time
}

// NewManager builds a manager backed by a real S3 client.
func NewManager(cfg Config, db *sql.DB, logger *slog.Logger) (*Manager, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	return newManager(cfg, db, newS3Client(cfg), logger), nil
}

func newManager(cfg Config, db *sql.DB, client s3Client, logger *slog.Logger) *Manager {
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")
	if cfg.Prefix == "" {
		cfg.Prefix = "chorechart"
	}
	if cfg.Retain <= 0 {
		cfg.Retain = 14
	}
	return &Manager{cfg: cfg, db: db, client: client, logger: logger, now: time.Now}
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

func (m *Manager) objectKey(t time.Time) string {
	return path.Join(m.cfg.Prefix, fmt.Sprintf("backup-%s.db.enc", t.UTC().Format(keyTimeLayout)))
}

// Run snapshots, encrypts and uploads the database, then prunes old archives.
// It returns the key of the new archive.
func (m *Manager) Run(ctx context.Context) (string, error) {
	start := m.now()

	snapshot, err := m.snapshot(ctx)
	if err != nil {
		return "", err
	}

	sealed, err := Encrypt(snapshot, m.cfg.Passphrase)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	key := m.objectKey(start)
	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(sealed),
		ContentLength: aws.Int64(int64(len(sealed))),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}
	m.logger.Info("backup uploaded", "key", key, "bytes", len(sealed), "duration", time.Since(start))

	if _, err := m.Prune(ctx); err != nil {
		return key, err
	}
	return key, nil
}

// snapshot writes a consistent copy of the database with VACUUM INTO and reads it back.
func (m *Manager) snapshot(ctx context.Context) ([]byte, error) {
	dir, err := os.MkdirTemp("", "chorechart-backup-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	dst := filepath.Join(dir, "snapshot.db")
	if _, err := m.db.ExecContext(ctx, `VACUUM INTO ?`, dst); err != nil {
		return nil, fmt.Errorf("vacuum into: %w", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return data, nil
}

// List returns archive keys under the prefix, newest first.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	var keys []string
	p := s3.NewListObjectsV2Paginator(m.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.cfg.Bucket),
		Prefix: aws.String(m.cfg.Prefix + "/backup-"),
	})
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list backups: %w", err)
		}
		for _, obj := range page.Contents {
			if key := aws.ToString(obj.Key); strings.HasSuffix(key, ".db.enc") {
				keys = append(keys, key)
			}
		}
	}
	// Timestamped keys sort chronologically.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

// Prune deletes every archive beyond the newest Retain and returns the removed keys.
func (m *Manager) Prune(ctx context.Context) ([]string, error) {
	keys, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) <= m.cfg.Retain {
		return nil, nil
	}

	var removed []string
	for _, key := range keys[m.cfg.Retain:] {
		if _, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(m.cfg.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			m.logger.Error("delete old backup", "key", key, "error", err)
			continue
		}
		removed = append(removed, key)
	}
	if len(removed) > 0 {
		m.logger.Info("pruned old backups", "count", len(removed), "retain", m.cfg.Retain)
	}
	return removed, nil
}

// Restore downloads and decrypts an archive, checks its integrity and writes
// it to dstPath. dstPath must not be the live database.
func (m *Manager) Restore(ctx context.Context, key, dstPath string) error {
	result, err := m.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("download from s3: %w", err)
	}
	defer result.Body.Close()

	sealed, err := io.ReadAll(result.Body)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	plaintext, err := Decrypt(sealed, m.cfg.Passphrase)
	if err != nil {
		return err
	}

	if err := os.WriteFile(dstPath, plaintext, 0600); err != nil {
		return fmt.Errorf("write restored database: %w", err)
	}
	if err := checkIntegrity(ctx, dstPath); err != nil {
		os.Remove(dstPath)
		return err
	}
	m.logger.Info("backup restored", "key", key, "path", dstPath)
	return nil
}

func checkIntegrity(ctx context.Context, dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open restored db: %w", err)
	}
	defer db.Close()

	var integrity string
	if err := db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if integrity != "ok" {
		return fmt.Errorf("integrity check failed: %s", integrity)
	}
	return nil
}
