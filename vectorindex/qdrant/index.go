package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/poiesic/cinegraph/vectorindex"
)

// Config holds connection settings for a Qdrant deployment.
type Config struct {
	// URL is the service endpoint, e.g. "https://xyz.cloud.qdrant.io:6334"
	// or "http://localhost:6334". The scheme determines TLS usage.
	URL string

	// APIKey is the service credential. Empty for unauthenticated local
	// deployments.
	APIKey string

	// Collection is the name of the collection holding movie vectors.
	Collection string
}

// Index implements vectorindex.Index backed by a Qdrant collection.
// The underlying gRPC client is safe for concurrent use and is held for the
// life of the process.
type Index struct {
	client     *qdrant.Client
	collection string
	logger     *slog.Logger
}

var _ vectorindex.Index = (*Index)(nil)

// New connects to Qdrant and returns an Index over the configured collection.
// The collection itself is provisioned lazily by the search service.
func New(config Config) (*Index, error) {
	if config.URL == "" {
		return nil, vectorindex.ErrURLRequired
	}
	if config.Collection == "" {
		return nil, vectorindex.ErrCollectionRequired
	}

	host, port, useTLS, err := splitEndpoint(config.URL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: config.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	return &Index{
		client:     client,
		collection: config.Collection,
		logger:     slog.Default().With("component", "qdrant-index", "collection", config.Collection),
	}, nil
}

// Close releases the underlying gRPC connection.
func (idx *Index) Close() error {
	return idx.client.Close()
}

// Exists reports whether the configured collection has been created.
func (idx *Index) Exists(ctx context.Context) (bool, error) {
	exists, err := idx.client.CollectionExists(ctx, idx.collection)
	if err != nil {
		return false, fmt.Errorf("checking collection %q: %w", idx.collection, err)
	}
	return exists, nil
}

// Create provisions the collection for cosine-distance ranking.
func (idx *Index) Create(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return vectorindex.ErrInvalidDimension
	}

	idx.logger.Info("creating collection", "dimension", dimension)
	err := idx.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: idx.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("creating collection %q: %w", idx.collection, err)
	}
	return nil
}

// Upsert inserts or replaces points by id. Waits for the write to be
// applied so a successful return means the batch is durable.
func (idx *Index) Upsert(ctx context.Context, points []vectorindex.Point) error {
	if len(points) == 0 {
		return nil
	}

	qdrantPoints := make([]*qdrant.PointStruct, len(points))
	for i, p := range points {
		qdrantPoints[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(map[string]any{
				"title":    p.Payload.Title,
				"genre":    p.Payload.Genre,
				"director": p.Payload.Director,
				"year":     p.Payload.Year,
			}),
		}
	}

	_, err := idx.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: idx.collection,
		Points:         qdrantPoints,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

// Query returns up to limit hits ranked by descending cosine similarity.
func (idx *Index) Query(ctx context.Context, vector []float32, limit int) ([]vectorindex.Hit, error) {
	scored, err := idx.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: idx.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("querying collection %q: %w", idx.collection, err)
	}

	hits := make([]vectorindex.Hit, 0, len(scored))
	for _, point := range scored {
		hits = append(hits, vectorindex.Hit{
			Payload: payloadFromValues(point.Payload),
			Score:   point.Score,
		})
	}
	return hits, nil
}

// payloadFromValues extracts the movie payload from a Qdrant value map.
// Year may come back as an integer or, for older ingests, a double.
func payloadFromValues(values map[string]*qdrant.Value) vectorindex.Payload {
	payload := vectorindex.Payload{
		Title:    values["title"].GetStringValue(),
		Genre:    values["genre"].GetStringValue(),
		Director: values["director"].GetStringValue(),
	}
	if year := values["year"]; year != nil {
		if i := year.GetIntegerValue(); i != 0 {
			payload.Year = int(i)
		} else if d := year.GetDoubleValue(); d != 0 {
			payload.Year = int(d)
		}
	}
	return payload
}

// splitEndpoint parses a URL of the form scheme://host:port into the pieces
// the Qdrant client wants. The port defaults to 6334 (gRPC) when omitted.
func splitEndpoint(raw string) (host string, port int, useTLS bool, err error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", 0, false, fmt.Errorf("parsing qdrant URL %q: %w", raw, err)
	}
	if parsed.Host == "" {
		return "", 0, false, fmt.Errorf("parsing qdrant URL %q: missing host", raw)
	}

	host = parsed.Hostname()
	port = 6334
	if p := parsed.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			return "", 0, false, fmt.Errorf("parsing qdrant URL %q: %w", raw, err)
		}
	}
	return host, port, parsed.Scheme == "https", nil
}
