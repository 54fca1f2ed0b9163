package cli

import (
	"context"

	"github.com/google/uuid"

	"github.com/BartekS5/churnflow/internal/config"
	"github.com/BartekS5/churnflow/internal/pipeline"
	"github.com/BartekS5/churnflow/pkg/database"
	"github.com/BartekS5/churnflow/pkg/logger"
	"github.com/BartekS5/churnflow/pkg/models"
)

type stepID int

const (
	stepIngestion stepID = iota
	stepValidation
	stepPreparation
	stepTransformation
	stepModelBuilding
)

// runtime bundles everything the step builders need for one invocation.
type runtime struct {
	cfg   *config.Config
	reg   *models.Registry
	runID string
}

func setup() (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := logger.InitLogger(cfg.LogFile); err != nil {
		return nil, err
	}
	reg, err := config.LoadRegistry(cfg.SchemaFile)
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, reg: reg, runID: uuid.NewString()}, nil
}

func runFullPipeline() error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	orch := pipeline.NewOrchestrator([]pipeline.Step{
		rt.buildStep(stepIngestion, 0),
		rt.buildStep(stepValidation, 0),
		rt.buildStep(stepPreparation, 0),
		rt.buildStep(stepTransformation, 0),
		rt.buildStep(stepModelBuilding, 0),
	})
	return orch.Run(context.Background())
}

func runSingleStep(id stepID, liveRows int) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer logger.Close()

	orch := pipeline.NewOrchestrator([]pipeline.Step{rt.buildStep(id, liveRows)})
	return orch.Run(context.Background())
}

func (rt *runtime) buildStep(id stepID, liveRows int) pipeline.Step {
	switch id {
	case stepIngestion:
		return pipeline.Step{Name: pipeline.StepIngestion, Run: func(ctx context.Context) error {
			return rt.runIngestion(ctx, liveRows)
		}}
	case stepValidation:
		return pipeline.Step{Name: pipeline.StepValidation, Run: rt.runValidation}
	case stepPreparation:
		return pipeline.Step{Name: pipeline.StepPreparation, Run: rt.runPreparation}
	case stepTransformation:
		return pipeline.Step{Name: pipeline.StepTransformation, Run: rt.runTransformation}
	default:
		return pipeline.Step{Name: pipeline.StepModelBuilding, Run: rt.runModelBuilding}
	}
}

// runIngestion snapshots the static source and generates one live batch.
// The static snapshot comes from SQL Server when a connection string is
// configured, otherwise from the reference CSV.
func (rt *runtime) runIngestion(ctx context.Context, liveRows int) error {
	var static pipeline.Source
	if rt.cfg.SQLConnString != "" {
		db, err := database.ConnectSQL(rt.cfg.SQLConnString)
		if err != nil {
			return err
		}
		defer db.Close()
		static = pipeline.NewSQLStaticSource(db, rt.cfg.SQLStaticTable, rt.cfg.StaticRawDir())
	} else {
		static = pipeline.NewStaticCSVSource(rt.cfg.StaticSnapshotPath(), rt.cfg.StaticRawDir())
	}

	if _, _, err := static.Ingest(ctx); err != nil {
		return err
	}

	rows := rt.cfg.LiveBatchSize
	if liveRows > 0 {
		rows = liveRows
	}
	live := pipeline.NewLiveSource(rt.reg, rows, rt.cfg.LiveRawDir())
	_, _, err := live.Ingest(ctx)
	return err
}

func (rt *runtime) runValidation(ctx context.Context) error {
	versions := pipeline.NewFileVersionLog(rt.cfg.VersionLogPath(), rt.runID)
	merger := pipeline.NewMerger(
		rt.cfg.StaticRawDir(),
		rt.cfg.LiveRawDir(),
		rt.cfg.MasterPath(),
		rt.cfg.ReportDir,
		pipeline.NewValidator(rt.reg),
		versions,
	)
	return merger.Run(ctx)
}

func (rt *runtime) runPreparation(ctx context.Context) error {
	preparer := pipeline.NewPreparer(rt.cfg.MasterPath(), rt.cfg.PreparedPath(), rt.reg)
	return preparer.Run(ctx)
}

func (rt *runtime) runTransformation(ctx context.Context) error {
	var store *pipeline.FeatureStore
	if rt.cfg.MongoConnString != "" {
		client, err := database.ConnectMongo(rt.cfg.MongoConnString)
		if err != nil {
			return err
		}
		defer client.Disconnect(ctx)
		store = pipeline.NewFeatureStore(client, rt.reg.IDColumn())
	}

	versions := pipeline.NewFileVersionLog(rt.cfg.VersionLogPath(), rt.runID)
	transformer := pipeline.NewTransformer(
		rt.cfg.PreparedPath(),
		rt.cfg.TransformedPath(),
		rt.reg,
		store,
		versions,
	)
	return transformer.Run(ctx)
}

func (rt *runtime) runModelBuilding(ctx context.Context) error {
	trainer := pipeline.NewTrainer(
		rt.cfg.TransformedPath(),
		rt.cfg.ModelPath(),
		"Churn",
		rt.reg.IDColumn(),
	)
	return trainer.Run(ctx)
}
