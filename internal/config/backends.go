package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"gremlinbridge/internal/errs"
)

// Cosmos holds Azure Cosmos DB Gremlin credentials. The env names match the field tags.
type Cosmos struct {
	Account      string `envconfig:"COSMOS_ACCOUNT"`
	Database     string `envconfig:"COSMOS_DB"`
	Container    string `envconfig:"COSMOS_CONTAINER"`
	PrimaryKey   string `envconfig:"COSMOS_PRIMARY_KEY"`
	PartitionKey string `envconfig:"COSMOS_PARTITION_KEY"`
}

// ResolveCosmos fills every empty field of explicit from the environment. A value missing
// from both is a configuration error naming the environment variable.
func ResolveCosmos(explicit Cosmos) (Cosmos, error) {
	var env Cosmos
	if err := envconfig.Process("", &env); err != nil {
		return Cosmos{}, fmt.Errorf("load cosmos config: %w", err)
	}

	fields := []struct {
		name string
		dst  *string
		env  string
	}{
		{"COSMOS_ACCOUNT", &explicit.Account, env.Account},
		{"COSMOS_DB", &explicit.Database, env.Database},
		{"COSMOS_CONTAINER", &explicit.Container, env.Container},
		{"COSMOS_PRIMARY_KEY", &explicit.PrimaryKey, env.PrimaryKey},
		{"COSMOS_PARTITION_KEY", &explicit.PartitionKey, env.PartitionKey},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = f.env
		}
		if *f.dst == "" {
			return Cosmos{}, errs.Config(f.name, "is not set")
		}
	}
	return explicit, nil
}

// Endpoint is the Gremlin websocket endpoint of the account.
func (c Cosmos) Endpoint() string {
	return fmt.Sprintf("wss://%s.gremlin.cosmosdb.azure.com:443/", c.Account)
}

// Username is the resource path Cosmos DB expects as the Gremlin username.
func (c Cosmos) Username() string {
	return fmt.Sprintf("/dbs/%s/colls/%s", c.Database, c.Container)
}

// Gremlin holds settings for a generic Gremlin server (TinkerPop, Neptune, JanusGraph).
type Gremlin struct {
	Endpoint        string `envconfig:"GREMLIN_ENDPOINT" default:"ws://localhost:8182/gremlin"`
	Username        string `envconfig:"GREMLIN_USERNAME"`
	Password        string `envconfig:"GREMLIN_PASSWORD"`
	TraversalSource string `envconfig:"GREMLIN_TRAVERSAL_SOURCE" default:"g"`
}

// LoadGremlin reads GREMLIN_* variables.
func LoadGremlin() (Gremlin, error) {
	var g Gremlin
	if err := envconfig.Process("", &g); err != nil {
		return Gremlin{}, fmt.Errorf("load gremlin config: %w", err)
	}
	return g, nil
}

// Validate checks if the configuration is valid and returns an error if not.
func (g Gremlin) Validate() error {
	if g.Endpoint == "" {
		return errs.Config("GREMLIN_ENDPOINT", "must not be empty")
	}
	if g.TraversalSource == "" {
		return errs.Config("GREMLIN_TRAVERSAL_SOURCE", "must not be empty")
	}
	if (g.Username == "") != (g.Password == "") {
		return errs.Config("GREMLIN_USERNAME", "username and password must be set together")
	}
	return nil
}

// Neo4j holds Neo4j connection settings.
type Neo4j struct {
	URI      string `envconfig:"NEO4J_URI" default:"neo4j://localhost:7687"`
	User     string `envconfig:"NEO4J_USER" default:"neo4j"`
	Password string `envconfig:"NEO4J_PASSWORD"`
	Database string `envconfig:"NEO4J_DATABASE" default:"neo4j"`
}

// LoadNeo4j reads NEO4J_* variables.
func LoadNeo4j() (Neo4j, error) {
	var n Neo4j
	if err := envconfig.Process("", &n); err != nil {
		return Neo4j{}, fmt.Errorf("load neo4j config: %w", err)
	}
	return n, nil
}

// Validate checks if the configuration is valid and returns an error if not.
func (n Neo4j) Validate() error {
	if n.URI == "" {
		return errs.Config("NEO4J_URI", "must not be empty")
	}
	if n.Password == "" {
		return errs.Config("NEO4J_PASSWORD", "must not be empty")
	}
	return nil
}
