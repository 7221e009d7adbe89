package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the compound indexes backing tenant-scoped
// uniqueness. The unique index on (workspaceId, birthHash) is what turns
// a concurrent double-ingest into a duplicate-key error for the loser.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		CollHoroscopes: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "birthHash", Value: 1}}, Options: unique},
		},
		CollPlanets: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "horoscopeId", Value: 1}, {Key: "name", Value: 1}}, Options: unique},
		},
		CollCharts: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "horoscopeId", Value: 1}, {Key: "division", Value: 1}}, Options: unique},
		},
		CollDashaSystems: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "horoscopeId", Value: 1}, {Key: "system", Value: 1}}, Options: unique},
		},
		CollYogas: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "horoscopeId", Value: 1}, {Key: "name", Value: 1}}},
		},
		CollDoshas: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "horoscopeId", Value: 1}, {Key: "name", Value: 1}}},
		},
		CollStrengths: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "horoscopeId", Value: 1}, {Key: "type", Value: 1}}},
		},
		CollPoints: {
			{Keys: bson.D{{Key: "workspaceId", Value: 1}, {Key: "horoscopeId", Value: 1}, {Key: "type", Value: 1}, {Key: "name", Value: 1}}},
		},
		CollPluginConfigs: {
			{Keys: bson.D{{Key: "plugin_id", Value: 1}, {Key: "workspace_id", Value: 1}}, Options: unique},
		},
	}

	for coll, models := range specs {
		if _, err := c.database.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to ensure indexes on %s: %w", coll, err)
		}
	}
	return nil
}
