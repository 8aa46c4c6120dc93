// Package openfga wraps the OpenFGA SDK for per-user permission tuples
// layered on top of the static role matrix.
package openfga

import (
	"context"
	"fmt"
	"log/slog"

	"fleettrack/internal/config"

	"github.com/openfga/go-sdk/client"
	"github.com/openfga/go-sdk/credentials"
)

type Client struct {
	fga    *client.OpenFgaClient
	config config.OpenFGAConfig
}

// NewClient connects to the configured store and verifies it before use.
// With OpenFGA disabled the client is inert and every check passes through.
func NewClient(cfg config.OpenFGAConfig) (*Client, error) {
	if !cfg.Enabled {
		slog.Info("OpenFGA is disabled")
		return &Client{config: cfg}, nil
	}

	fgaClient, err := client.NewSdkClient(&client.ClientConfiguration{
		ApiHost: cfg.APIURL,
		StoreId: cfg.StoreID,
		Credentials: &credentials.Credentials{
			Method: credentials.CredentialsMethodApiToken,
			Config: &credentials.Config{
				ApiToken: cfg.APIToken,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenFGA client: %w", err)
	}

	c := &Client{
		fga:    fgaClient,
		config: cfg,
	}

	if err := c.verifyConnection(); err != nil {
		return nil, fmt.Errorf("failed to verify OpenFGA connection: %w", err)
	}

	slog.Info("OpenFGA client initialized",
		"store_id", cfg.StoreID, "model_id", cfg.AuthorizationModelID)

	return c, nil
}

func (c *Client) verifyConnection() error {
	if !c.config.Enabled {
		return nil
	}

	ctx := context.Background()

	response, err := c.fga.GetStore(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to get store: %w", err)
	}
	if response.Id != c.config.StoreID {
		return fmt.Errorf("store ID mismatch: expected %s, got %s",
			c.config.StoreID, response.Id)
	}

	modelResponse, err := c.fga.ReadAuthorizationModel(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to read authorization model: %w", err)
	}
	if modelResponse.AuthorizationModel.Id != c.config.AuthorizationModelID {
		slog.Warn("authorization model ID mismatch",
			"expected", c.config.AuthorizationModelID,
			"actual", modelResponse.AuthorizationModel.Id)
	}

	return nil
}

func (c *Client) IsEnabled() bool {
	return c.config.Enabled && c.fga != nil
}

// Close drops the SDK reference; the SDK holds no connection to close.
func (c *Client) Close() {
	if c.fga != nil {
		c.fga = nil
	}
}

// CheckPermission reports whether the user holds the relation on the object.
// With OpenFGA disabled it always allows.
func (c *Client) CheckPermission(ctx context.Context, userID, relation, objectType, objectID string) (bool, error) {
	if !c.config.Enabled {
		return true, nil
	}

	body := client.ClientCheckRequest{
		User:     fmt.Sprintf("user:%s", userID),
		Relation: relation,
		Object:   fmt.Sprintf("%s:%s", objectType, objectID),
	}

	data, err := c.fga.Check(ctx).Body(body).Execute()
	if err != nil {
		slog.Error("OpenFGA check failed",
			"user", userID,
			"relation", relation,
			"object", fmt.Sprintf("%s:%s", objectType, objectID),
			"error", err)
		return false, err
	}

	return data.GetAllowed(), nil
}

// WriteTuple records a relationship tuple.
func (c *Client) WriteTuple(ctx context.Context, userID, relation, objectType, objectID string) error {
	if !c.config.Enabled {
		return nil
	}

	body := client.ClientWriteRequest{
		Writes: []client.ClientTupleKey{
			{
				User:     fmt.Sprintf("user:%s", userID),
				Relation: relation,
				Object:   fmt.Sprintf("%s:%s", objectType, objectID),
			},
		},
	}

	if _, err := c.fga.Write(ctx).Body(body).Execute(); err != nil {
		slog.Error("OpenFGA write failed",
			"user", userID,
			"relation", relation,
			"object", fmt.Sprintf("%s:%s", objectType, objectID),
			"error", err)
		return err
	}

	return nil
}

// DeleteTuple removes a relationship tuple.
func (c *Client) DeleteTuple(ctx context.Context, userID, relation, objectType, objectID string) error {
	if !c.config.Enabled {
		return nil
	}

	body := client.ClientWriteRequest{
		Deletes: []client.ClientTupleKeyWithoutCondition{
			{
				User:     fmt.Sprintf("user:%s", userID),
				Relation: relation,
				Object:   fmt.Sprintf("%s:%s", objectType, objectID),
			},
		},
	}

	if _, err := c.fga.Write(ctx).Body(body).Execute(); err != nil {
		slog.Error("OpenFGA delete failed",
			"user", userID,
			"relation", relation,
			"object", fmt.Sprintf("%s:%s", objectType, objectID),
			"error", err)
		return err
	}

	return nil
}
