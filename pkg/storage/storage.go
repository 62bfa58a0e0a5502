// Package storage archives raw files to Azure Blob Storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/JaimeStill/curator/pkg/lifecycle"
)

// System archives and retrieves blobs.
type System interface {
	// Start registers container initialization with the coordinator.
	Start(lc *lifecycle.Coordinator) error
	// Archive stores reader under a timestamped key derived from filename and returns the key.
	Archive(ctx context.Context, filename string, reader io.Reader, contentType string) (string, error)
	// Download returns a stream for the blob at key. The caller must close it.
	Download(ctx context.Context, key string) (io.ReadCloser, error)
}

// New returns an Azure-backed System, or a disabled one when no connection string is set.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	logger = logger.With("system", "storage")

	if !cfg.Enabled() {
		return disabled{logger: logger}, nil
	}

	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		prefix:    cfg.Prefix,
		now:       time.Now,
		logger:    logger,
	}, nil
}

type azure struct {
	client    *azblob.Client
	container string
	prefix    string
	now       func() time.Time
	logger    *slog.Logger
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func(ctx context.Context) error {
		_, err := a.client.CreateContainer(ctx, a.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return fmt.Errorf("storage container init: %w", err)
		}

		a.logger.Info("storage container ready", "container", a.container)
		return nil
	})

	return nil
}

func (a *azure) Archive(ctx context.Context, filename string, reader io.Reader, contentType string) (string, error) {
	key := ArchiveKey(a.prefix, filename, a.now())
	if err := validateKey(key); err != nil {
		return "", err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	}

	if _, err := a.client.UploadStream(ctx, a.container, key, reader, opts); err != nil {
		return "", fmt.Errorf("upload blob %s: %w", key, err)
	}

	a.logger.Info("archived upload", "key", key)
	return key, nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download blob %s: %w", key, err)
	}

	return resp.Body, nil
}

type disabled struct {
	logger *slog.Logger
}

func (d disabled) Start(*lifecycle.Coordinator) error {
	d.logger.Info("storage disabled, uploads will not be archived")
	return nil
}

func (disabled) Archive(context.Context, string, io.Reader, string) (string, error) {
	return "", ErrDisabled
}

func (disabled) Download(context.Context, string) (io.ReadCloser, error) {
	return nil, ErrDisabled
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ArchiveKey builds "<prefix>/<YYYYmmdd_HHMMSS>-<filename>" with the filename reduced
// to a safe base name.
func ArchiveKey(prefix, filename string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	name = unsafeName.ReplaceAllString(name, "_")
	for strings.Contains(name, "..") {
		name = strings.ReplaceAll(name, "..", ".")
	}
	if strings.Trim(name, "./") == "" {
		name = "upload"
	}

	key := at.UTC().Format("20060102_150405") + "-" + name
	if prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

func validateKey(key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if strings.Contains(key, "..") {
		return ErrInvalidKey
	}
	return nil
}
