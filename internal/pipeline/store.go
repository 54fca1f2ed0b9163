package pipeline

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BartekS5/churnflow/pkg/dataset"
	"github.com/BartekS5/churnflow/pkg/logger"
)

// FeatureStore bulk-upserts encoded feature records into MongoDB, keyed by
// the customer identifier so reruns overwrite rather than duplicate.
type FeatureStore struct {
	Client     *mongo.Client
	Database   string
	Collection string
	IDField    string
}

func NewFeatureStore(client *mongo.Client, idField string) *FeatureStore {
	return &FeatureStore{
		Client:     client,
		Database:   "churn",
		Collection: "features",
		IDField:    idField,
	}
}

func (s *FeatureStore) Load(ctx context.Context, batch *dataset.Batch) error {
	coll := s.Client.Database(s.Database).Collection(s.Collection)
	var writes []mongo.WriteModel

	for i := range batch.Rows {
		idVal := batch.Cell(i, s.IDField)
		if idVal.Null {
			logger.Errorf("[TRANSFORMATION] Skipping row %d: missing %s", i, s.IDField)
			continue
		}

		doc := bson.M{}
		for _, col := range batch.Columns {
			v := batch.Cell(i, col)
			switch {
			case v.Null:
				doc[col] = nil
			default:
				doc[col] = featureValue(v)
			}
		}

		filter := bson.M{s.IDField: idVal.Raw}
		update := bson.M{"$set": doc}
		model := mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(update).SetUpsert(true)
		writes = append(writes, model)
	}

	if len(writes) == 0 {
		return nil
	}

	writeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	res, err := coll.BulkWrite(writeCtx, writes)
	if err != nil {
		return err
	}
	logger.Infof("[TRANSFORMATION] Feature store BulkWrite: Match %d, Mod %d, Upsert %d",
		res.MatchedCount, res.ModifiedCount, res.UpsertedCount)
	return nil
}

// featureValue stores numeric cells as numbers and everything else as the
// raw string.
func featureValue(v dataset.Value) interface{} {
	if n, ok := v.Int(); ok {
		return n
	}
	if f, ok := v.Float(); ok {
		return f
	}
	return v.Raw
}
