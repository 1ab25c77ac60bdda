package logging

import (
	"context"
	"time"

	"kgeyst.com/vista/pkg/common"
	"kgeyst.com/vista/pkg/vista/domain"
)

type visionModelDecorator struct {
	wrappedVisionModel domain.VisionModel
	logger             common.Logger
}

func NewVisionModelDecorator(wrappedVisionModel domain.VisionModel, logger common.Logger) domain.VisionModel {
	return &visionModelDecorator{
		wrappedVisionModel: wrappedVisionModel,
		logger:             logger,
	}
}

func (v *visionModelDecorator) Name() string {
	return v.wrappedVisionModel.Name()
}

func (v *visionModelDecorator) Describe(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	v.logger.Info("vision prompt", "model", v.Name(), "prompt", prompt, "imageBytes", len(image), "mimeType", mimeType)
	t := time.Now()
	response, err := v.wrappedVisionModel.Describe(ctx, prompt, image, mimeType)
	if err != nil {
		v.logger.Error("vision model failed", err, "model", v.Name(), "tookMs", time.Since(t).Milliseconds())
		return "", err
	}
	v.logger.Info("vision response", "model", v.Name(), "response", response, "tookMs", time.Since(t).Milliseconds())
	return response, nil
}
