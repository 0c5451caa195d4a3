package blob

import (
	"context"
	"fmt"

	"github.com/garnizeh/jobboard/internal/config"
)

// NewStoreFromConfig creates a Store implementation based on the blob config type.
func NewStoreFromConfig(ctx context.Context, cfg config.BlobConfig) (Store, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryStore(cfg.Prefix), nil
	case "s3":
		if cfg.Bucket == "" || cfg.Region == "" {
			return nil, fmt.Errorf("s3 blob store requires bucket and region")
		}
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown blob type: %s", cfg.Type)
	}
}
