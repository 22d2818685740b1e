// Command publish-web uploads a built frontend bundle to the MinIO bucket
// the server reads from when MINIO_ENDPOINT is set.
//
//	publish-web ./frontend/dist
package main

import (
	"context"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/ayush/flight-tracker/internal/config"
	"github.com/ayush/flight-tracker/internal/logging"
	"github.com/ayush/flight-tracker/internal/store"
)

func main() {
	if len(os.Args) != 2 {
		logging.Fatal().Msg("usage: publish-web <dist-dir>")
	}
	dir := os.Args[1]

	cfg, err := config.Read()
	if err != nil {
		logging.Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})
	if cfg.MinioEndpoint == "" {
		logging.Fatal().Msg("MINIO_ENDPOINT is required")
	}

	ctx := context.Background()
	bucket, err := store.NewMinioStore(ctx, store.MinioConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("minio connect")
	}

	count := 0
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)

		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		contentType := mime.TypeByExtension(path.Ext(key))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		if err := bucket.Upload(ctx, key, data, contentType); err != nil {
			return err
		}
		logging.Info().Str("key", key).Int("bytes", len(data)).Msg("uploaded")
		count++
		return nil
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("publish failed")
	}
	logging.Info().Int("files", count).Str("bucket", cfg.MinioBucket).Msg("bundle published")
}
