package export

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/Franka-Beyer/HSprakt/logger"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type Uploader interface {
	Upload(ctx context.Context, key string, data []byte) (*s3manager.UploadOutput, error)
}

// Publish uploads every file under prefix, keyed by its base name. It stops at
// the first failure.
func Publish(ctx context.Context, uploader Uploader, prefix string, files ...string) error {
	publishLogger := logger.NewLogger("Publish")
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return err
		}
		key := path.Join(prefix, filepath.Base(file))
		if _, err := uploader.Upload(ctx, key, data); err != nil {
			return fmt.Errorf("uploading %s: %w", file, err)
		}
		publishLogger.Info().Str("file", file).Str("key", key).Int("bytes", len(data)).Msg("Published artifact")
	}
	return nil
}
