// Package gremlin implements the bridge transport over the TinkerPop gremlin-go driver.
// Queries are submitted as script strings, which Cosmos DB, Neptune and Gremlin Server all
// accept.
package gremlin

import (
	"context"
	"fmt"

	gremlingo "github.com/apache/tinkerpop/gremlin-go/v3/driver"

	"gremlinbridge/internal/config"
)

// Settings selects a Gremlin endpoint.
type Settings struct {
	Endpoint        string
	TraversalSource string
	Username        string
	Password        string
}

// FromConfig converts generic Gremlin server settings.
func FromConfig(c config.Gremlin) Settings {
	return Settings{
		Endpoint:        c.Endpoint,
		TraversalSource: c.TraversalSource,
		Username:        c.Username,
		Password:        c.Password,
	}
}

// CosmosSettings addresses the Gremlin API of a Cosmos DB account.
func CosmosSettings(c config.Cosmos) Settings {
	return Settings{
		Endpoint:        c.Endpoint(),
		TraversalSource: "g",
		Username:        c.Username(),
		Password:        c.PrimaryKey,
	}
}

// scriptClient is the part of *gremlingo.Client the transport uses.
type scriptClient interface {
	submit(query string) ([]any, error)
	close()
}

type driverClient struct {
	c *gremlingo.Client
}

func (d driverClient) submit(query string) ([]any, error) {
	rs, err := d.c.Submit(query)
	if err != nil {
		return nil, err
	}
	results, err := rs.All()
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, len(results))
	for _, r := range results {
		out = append(out, r.GetInterface())
	}
	return out, nil
}

func (d driverClient) close() { d.c.Close() }

// Transport submits scripts over one gremlin-go client connection.
type Transport struct {
	settings Settings
	log      config.Logger
	client   scriptClient
}

// New connects to the endpoint in s.
func New(s Settings, log config.Logger) (*Transport, error) {
	t := &Transport{settings: s, log: log}
	if err := t.Reconnect(); err != nil {
		return nil, err
	}
	return t, nil
}

// Reconnect closes any open connection and dials the endpoint again.
func (t *Transport) Reconnect() error {
	if t.client != nil {
		t.client.close()
		t.client = nil
	}
	c, err := gremlingo.NewClient(t.settings.Endpoint, func(cs *gremlingo.ClientSettings) {
		cs.TraversalSource = t.settings.TraversalSource
		cs.Logger = driverLogger{log: t.log}
		if t.settings.Username != "" {
			cs.AuthInfo = gremlingo.BasicAuthInfo(t.settings.Username, t.settings.Password)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to create gremlin client for %s: %w", t.settings.Endpoint, err)
	}
	t.client = driverClient{c: c}
	return nil
}

// Submit runs the script and converts every result to plain maps and lists.
func (t *Transport) Submit(ctx context.Context, query string) ([]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := t.client
	if c == nil {
		return nil, fmt.Errorf("gremlin client is closed")
	}

	type reply struct {
		batch []any
		err   error
	}
	done := make(chan reply, 1)
	go func() {
		batch, err := c.submit(query)
		done <- reply{batch, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}
		out := make([]any, len(r.batch))
		for i, v := range r.batch {
			out[i] = convertValue(v)
		}
		return out, nil
	}
}

func (t *Transport) Close(context.Context) error {
	if t.client != nil {
		t.client.close()
		t.client = nil
	}
	return nil
}

// driverLogger forwards gremlin-go driver logs.
type driverLogger struct {
	log config.Logger
}

func (l driverLogger) Log(verbosity gremlingo.LogVerbosity, v ...any) {
	l.write(verbosity, fmt.Sprint(v...))
}

func (l driverLogger) Logf(verbosity gremlingo.LogVerbosity, format string, v ...any) {
	l.write(verbosity, fmt.Sprintf(format, v...))
}

func (l driverLogger) write(verbosity gremlingo.LogVerbosity, msg string) {
	switch verbosity {
	case gremlingo.Debug:
		l.log.Debugw(msg, "component", "gremlin-go")
	case gremlingo.Info:
		l.log.Infow(msg, "component", "gremlin-go")
	case gremlingo.Warning:
		l.log.Warnw(msg, "component", "gremlin-go")
	default:
		l.log.Errorw(msg, "component", "gremlin-go")
	}
}
