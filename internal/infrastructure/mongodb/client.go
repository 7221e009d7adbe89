package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/astrovault/natalcore/internal/domain"
)

// Collection names for the root and dependent entity collections.
const (
	CollHoroscopes    = "horoscopes"
	CollPlanets       = "planets"
	CollCharts        = "divisional_charts"
	CollDashaSystems  = "dasha_systems"
	CollYogas         = "yogas"
	CollDoshas        = "doshas"
	CollStrengths     = "strengths"
	CollPoints        = "astrological_points"
	CollPluginConfigs = "plugin_configurations"
)

// Client wraps a MongoDB connection scoped to one database.
type Client struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *slog.Logger
}

// NewClient connects to MongoDB and pings it before returning.
func NewClient(ctx context.Context, uri, dbName string, logger *slog.Logger) (*Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info("mongodb connected", slog.String("database", dbName))

	return &Client{
		client:   client,
		database: client.Database(dbName),
		logger:   logger,
	}, nil
}

// Collection returns a handle for the named collection.
func (c *Client) Collection(name string) *mongo.Collection {
	return c.database.Collection(name)
}

// WithTransaction runs fn inside one multi-document transaction. The
// context passed to fn carries the session; repository calls made with it
// join the transaction. Any error from fn aborts the whole transaction.
func (c *Client) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// FindPluginConfig loads one plugin configuration document for a workspace.
func (c *Client) FindPluginConfig(ctx context.Context, pluginID, workspaceID string) (*domain.ProviderConfig, error) {
	var doc struct {
		Config struct {
			JhoraAPIURL string `bson:"jhora_api_url"`
		} `bson:"config"`
	}
	err := c.database.Collection(CollPluginConfigs).FindOne(ctx, bson.M{
		"plugin_id":    pluginID,
		"workspace_id": workspaceID,
	}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load plugin config: %w", err)
	}
	if doc.Config.JhoraAPIURL == "" {
		return nil, domain.ErrNotConfigured
	}
	return &domain.ProviderConfig{APIURL: doc.Config.JhoraAPIURL}, nil
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return c.client.Ping(ctx, nil)
}

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
