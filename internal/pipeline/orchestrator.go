// Package pipeline implements the customer churn batch pipeline: record
// source adapters, the schema validator, the master-dataset merger and the
// downstream preparation, transformation and model-building steps.
package pipeline

import (
	"context"
	"fmt"

	"github.com/BartekS5/churnflow/pkg/logger"
)

// Pipeline step names, executed in this order.
const (
	StepIngestion      = "INGESTION"
	StepValidation     = "VALIDATION"
	StepPreparation    = "PREPARATION"
	StepTransformation = "TRANSFORMATION_AND_STORAGE"
	StepModelBuilding  = "MODEL_BUILDING"
)

// Step is one named stage of the pipeline.
type Step struct {
	Name string
	Run  func(ctx context.Context) error
}

// Orchestrator runs the steps in fixed order, stopping at the first
// failure. The failing step's error is returned verbatim (wrapped with the
// step name) so the caller can surface it and exit non-zero.
type Orchestrator struct {
	Steps []Step
}

func NewOrchestrator(steps []Step) *Orchestrator {
	return &Orchestrator{Steps: steps}
}

func (o *Orchestrator) Run(ctx context.Context) error {
	logger.Infof("Starting customer churn pipeline run")
	for _, step := range o.Steps {
		logger.Infof("Starting step: %s", step.Name)
		if err := step.Run(ctx); err != nil {
			logger.Errorf("Error in step %s: %v", step.Name, err)
			return fmt.Errorf("step %s: %w", step.Name, err)
		}
		logger.Infof("Completed step: %s", step.Name)
	}
	logger.Infof("Pipeline execution completed successfully")
	return nil
}
