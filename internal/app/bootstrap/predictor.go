package bootstrap

import (
	"context"
	"errors"
	"os"

	"github.com/wolfman30/restaurant-webhook/internal/availability"
	appconfig "github.com/wolfman30/restaurant-webhook/internal/config"
	"github.com/wolfman30/restaurant-webhook/pkg/logging"
)

// BuildPredictor loads the occupancy model from S3 when a bucket and key are
// configured, then from MODEL_PATH. It returns nil when neither yields a
// model, leaving the resolver on its rule-based fallback.
func BuildPredictor(ctx context.Context, cfg *appconfig.Config, s3Client availability.S3GetAPI, logger *logging.Logger) availability.Predictor {
	if logger == nil {
		logger = logging.Default()
	}

	if cfg.ModelS3Bucket != "" && cfg.ModelS3Key != "" {
		model, err := availability.LoadModelFromS3(ctx, s3Client, cfg.ModelS3Bucket, cfg.ModelS3Key)
		if err == nil {
			logger.Info("occupancy model loaded", "source", "s3", "bucket", cfg.ModelS3Bucket, "key", cfg.ModelS3Key, "trees", model.Trees())
			return model
		}
		logger.Warn("occupancy model not loaded from s3", "error", err)
	}

	if cfg.ModelPath == "" {
		logger.Warn("no occupancy model configured; using rule-based availability")
		return nil
	}
	model, err := availability.LoadModelFile(cfg.ModelPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("occupancy model file missing; using rule-based availability", "path", cfg.ModelPath)
		} else {
			logger.Error("occupancy model invalid; using rule-based availability", "path", cfg.ModelPath, "error", err)
		}
		return nil
	}
	logger.Info("occupancy model loaded", "source", "file", "path", cfg.ModelPath, "trees", model.Trees())
	return model
}
