package main

import (
	"context"
	"fmt"

	"github.com/iafilius/DataVizDesign/src/config"
	"github.com/iafilius/DataVizDesign/src/pipeline"
	"github.com/iafilius/DataVizDesign/src/vizlog"
)

// runHeadless renders every configured chart as PNG under outDir without creating a window.
func runHeadless(ctx context.Context, configPath, outDir string) error {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return err
	}
	results, err := pipeline.New(cfg).RenderAll(ctx, nil, outDir, false)
	if err != nil {
		return fmt.Errorf("headless render: %w", err)
	}
	vizlog.Infof("[viewer] wrote %d charts to %s", len(results), outDir)
	return nil
}
