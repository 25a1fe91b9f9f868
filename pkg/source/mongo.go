package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	errs "github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/graph"
)

// Default collection names when the URI does not set nodes= or links=.
const (
	DefaultNodeCollection = "nodes"
	DefaultLinkCollection = "links"
)

// MongoLocation is a parsed mongodb:// dataset location.
type MongoLocation struct {
	// URI is the connection string with the dataset parameters removed.
	URI      string
	Database string
	Nodes    string
	Links    string
}

// ParseMongoURI splits a dataset location into a connection string, the
// database (from the path) and the node and link collection names.
func ParseMongoURI(uri string) (MongoLocation, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return MongoLocation{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "malformed mongodb location")
	}
	db := strings.Trim(u.Path, "/")
	if db == "" {
		return MongoLocation{}, errs.New(errs.ErrCodeInvalidInput, "mongodb location must name a database")
	}

	q := u.Query()
	loc := MongoLocation{
		Database: db,
		Nodes:    q.Get("nodes"),
		Links:    q.Get("links"),
	}
	if loc.Nodes == "" {
		loc.Nodes = DefaultNodeCollection
	}
	if loc.Links == "" {
		loc.Links = DefaultLinkCollection
	}
	q.Del("nodes")
	q.Del("links")
	u.RawQuery = q.Encode()
	loc.URI = u.String()
	return loc, nil
}

func openMongo(ctx context.Context, uri string) (graph.Dataset, error) {
	loc, err := ParseMongoURI(uri)
	if err != nil {
		return graph.Dataset{}, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(loc.URI))
	if err != nil {
		return graph.Dataset{}, errs.Wrap(errs.ErrCodeNetwork, err, "connect to mongodb")
	}
	defer func() { _ = client.Disconnect(context.WithoutCancel(ctx)) }()

	db := client.Database(loc.Database)

	var nodeDocs []bson.M
	if err := findAll(ctx, db.Collection(loc.Nodes), &nodeDocs); err != nil {
		return graph.Dataset{}, err
	}
	var links []graph.LinkRecord
	if err := findAll(ctx, db.Collection(loc.Links), &links); err != nil {
		return graph.Dataset{}, err
	}

	nodes := make([]graph.NodeRecord, 0, len(nodeDocs))
	for i, doc := range nodeDocs {
		rec, err := nodeFromDocument(doc)
		if err != nil {
			return graph.Dataset{}, errs.Wrap(errs.ErrCodeInvalidDataset, err, "%s document %d", loc.Nodes, i)
		}
		nodes = append(nodes, rec)
	}
	return graph.Dataset{Nodes: nodes, Links: links}, nil
}

func findAll(ctx context.Context, coll *mongo.Collection, out any) error {
	cur, err := coll.Find(ctx, bson.D{})
	if err != nil {
		return errs.Wrap(errs.ErrCodeNetwork, err, "query %s", coll.Name())
	}
	if err := cur.All(ctx, out); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidDataset, err, "decode %s", coll.Name())
	}
	return nil
}

// nodeFromDocument turns a node document into a record. The name field is
// the id; _id is dropped and every other field becomes an attribute.
func nodeFromDocument(doc bson.M) (graph.NodeRecord, error) {
	name, ok := doc["name"]
	if !ok {
		return graph.NodeRecord{}, fmt.Errorf("missing name")
	}
	id, err := graph.NameString(name)
	if err != nil {
		return graph.NodeRecord{}, err
	}
	rec := graph.NodeRecord{Name: id}
	for k, v := range doc {
		if k == "name" || k == "_id" {
			continue
		}
		if rec.Attrs == nil {
			rec.Attrs = make(map[string]any)
		}
		rec.Attrs[k] = normalizeValue(v)
	}
	return rec, nil
}

// normalizeValue maps BSON numeric types onto the float64 values JSON
// decoding produces, so attributes behave the same for every source.
func normalizeValue(v any) any {
	switch x := v.(type) {
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	}
	return v
}
