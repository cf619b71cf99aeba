package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"docintel/internal/config"
)

// Field names of the chunk collection schema.
const (
	FieldID        = "id"
	FieldText      = "text"
	FieldEmbedding = "embedding"
)

const (
	idMaxLength   = 64
	textMaxLength = 65535
	ivfNlist      = 128
	ivfNprobe     = 10
)

// Client wraps the Milvus SDK client for a single chunk collection.
// Per-document isolation is done with one partition per document.
type Client struct {
	milvus     client.Client
	collection string
	dim        int
}

// Connect creates a Milvus client from the configuration.
func Connect(ctx context.Context, cfg *config.MilvusConfig) (*Client, error) {
	c, err := client.NewClient(ctx, client.Config{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to Milvus at '%s': %w", cfg.Address, err)
	}
	return &Client{
		milvus:     c,
		collection: cfg.Collection,
		dim:        cfg.Dim,
	}, nil
}

// Close closes the connection to Milvus.
func (c *Client) Close() {
	if c.milvus != nil {
		c.milvus.Close()
	}
}

// HealthCheck verifies the connection is usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.milvus == nil {
		return fmt.Errorf("milvus client is nil")
	}
	if _, err := c.milvus.ListCollections(ctx); err != nil {
		return fmt.Errorf("milvus health check failed: %w", err)
	}
	return nil
}

// EnsureCollection creates the chunk collection and its vector index if
// they do not exist, then loads the collection.
func (c *Client) EnsureCollection(ctx context.Context) error {
	exists, err := c.milvus.HasCollection(ctx, c.collection)
	if err != nil {
		return fmt.Errorf("cannot check collection '%s': %w", c.collection, err)
	}

	if !exists {
		schema := entity.NewSchema().
			WithName(c.collection).
			WithDescription("document chunk embeddings").
			WithField(entity.NewField().
				WithName(FieldID).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(idMaxLength).
				WithIsPrimaryKey(true)).
			WithField(entity.NewField().
				WithName(FieldText).
				WithDataType(entity.FieldTypeVarChar).
				WithMaxLength(textMaxLength)).
			WithField(entity.NewField().
				WithName(FieldEmbedding).
				WithDataType(entity.FieldTypeFloatVector).
				WithDim(int64(c.dim)))

		if err := c.milvus.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("cannot create collection '%s': %w", c.collection, err)
		}

		idx, err := entity.NewIndexIvfFlat(entity.L2, ivfNlist)
		if err != nil {
			return fmt.Errorf("cannot build index definition: %w", err)
		}
		if err := c.milvus.CreateIndex(ctx, c.collection, FieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("cannot create index on '%s': %w", FieldEmbedding, err)
		}
	}

	if err := c.milvus.LoadCollection(ctx, c.collection, false); err != nil {
		return fmt.Errorf("cannot load collection '%s': %w", c.collection, err)
	}

	return nil
}

// CreatePartition creates a new partition in the chunk collection.
func (c *Client) CreatePartition(ctx context.Context, partitionName string) error {
	if err := c.milvus.CreatePartition(ctx, c.collection, partitionName); err != nil {
		return fmt.Errorf("cannot create partition '%s' in '%s': %w", partitionName, c.collection, err)
	}
	return nil
}

// HasPartition reports whether the partition exists.
func (c *Client) HasPartition(ctx context.Context, partitionName string) (bool, error) {
	partitions, err := c.milvus.ShowPartitions(ctx, c.collection)
	if err != nil {
		return false, fmt.Errorf("cannot list partitions of '%s': %w", c.collection, err)
	}

	for _, p := range partitions {
		if p.Name == partitionName {
			return true, nil
		}
	}
	return false, nil
}

// DropPartition removes the partition and everything stored in it.
func (c *Client) DropPartition(ctx context.Context, partitionName string) error {
	if err := c.milvus.DropPartition(ctx, c.collection, partitionName); err != nil {
		return fmt.Errorf("cannot drop partition '%s' from '%s': %w", partitionName, c.collection, err)
	}
	return nil
}

// InsertBatch inserts chunk rows into the given partition and flushes so
// the data is immediately durable and searchable.
func (c *Client) InsertBatch(ctx context.Context, partitionName string, ids, texts []string, vectors [][]float32) error {
	if len(ids) != len(texts) || len(ids) != len(vectors) {
		return fmt.Errorf("mismatched column lengths: %d ids, %d texts, %d vectors", len(ids), len(texts), len(vectors))
	}
	if len(ids) == 0 {
		return nil // Nothing to insert
	}

	idCol := entity.NewColumnVarChar(FieldID, ids)
	textCol := entity.NewColumnVarChar(FieldText, texts)
	vectorCol := entity.NewColumnFloatVector(FieldEmbedding, c.dim, vectors)

	if _, err := c.milvus.Insert(ctx, c.collection, partitionName, idCol, textCol, vectorCol); err != nil {
		return fmt.Errorf("cannot insert %d rows into partition '%s': %w", len(ids), partitionName, err)
	}

	if err := c.milvus.Flush(ctx, c.collection, false); err != nil {
		return fmt.Errorf("cannot flush collection '%s': %w", c.collection, err)
	}

	return nil
}

// Search runs a vector similarity search inside the given partition and
// returns the raw SDK results with the text field populated.
func (c *Client) Search(ctx context.Context, partitionName string, vector []float32, topK int) ([]client.SearchResult, error) {
	if err := c.milvus.LoadCollection(ctx, c.collection, false); err != nil {
		return nil, fmt.Errorf("cannot load collection '%s': %w", c.collection, err)
	}

	sp, err := entity.NewIndexIvfFlatSearchParam(ivfNprobe)
	if err != nil {
		return nil, fmt.Errorf("cannot build search params: %w", err)
	}

	results, err := c.milvus.Search(
		ctx,
		c.collection,
		[]string{partitionName},
		"",
		[]string{FieldText},
		[]entity.Vector{entity.FloatVector(vector)},
		FieldEmbedding,
		entity.L2,
		topK,
		sp,
	)
	if err != nil {
		return nil, fmt.Errorf("search in partition '%s' failed: %w", partitionName, err)
	}

	return results, nil
}
