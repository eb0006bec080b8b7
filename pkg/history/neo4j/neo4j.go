// Package neo4j implements history.Store as Caller nodes linked to
// Exchange nodes.
package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/unikit/regent/pkg/history/consts"
	history "github.com/unikit/regent/pkg/history/types"
)

type Neo4jHistory struct {
	driver neo4j.DriverWithContext
	dbName string
	limit  int
}

// New creates a Neo4j-backed history keeping at most limit exchanges per
// token.
func New(uri, username, password, dbName string, limit int) (*Neo4jHistory, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = consts.DefaultLimit
	}

	return &Neo4jHistory{
		driver: driver,
		dbName: dbName,
		limit:  limit,
	}, nil
}

// Append creates the exchange node and detaches the caller's oldest
// exchanges beyond the limit.
func (h *Neo4jHistory) Append(ctx context.Context, token string, ex history.Exchange) error {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: h.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		create := fmt.Sprintf(`
		MERGE (c:%s {token: $token})
		CREATE (m:%s {
			%s: $question,
			%s: $answer,
			%s: datetime()
		})
		CREATE (c)-[:%s]->(m)
		RETURN m
		`, consts.LabelCaller, consts.LabelExchange,
			consts.ColQuestion, consts.ColAnswer, consts.ColCreatedAt,
			consts.RelAsked)

		params := map[string]any{
			"token":    token,
			"question": ex.Question,
			"answer":   ex.Answer,
		}
		if _, err := tx.Run(ctx, create, params); err != nil {
			return nil, err
		}

		prune := fmt.Sprintf(`
		MATCH (c:%s {token: $token})-[:%s]->(m:%s)
		WITH m ORDER BY m.%s DESC
		SKIP $limit
		DETACH DELETE m
		`, consts.LabelCaller, consts.RelAsked, consts.LabelExchange,
			consts.ColCreatedAt)

		_, err := tx.Run(ctx, prune, map[string]any{
			"token": token,
			"limit": h.limit,
		})
		return nil, err
	})

	return err
}

// List loads the caller's exchanges, oldest first.
func (h *Neo4jHistory) List(ctx context.Context, token string) ([]history.Exchange, error) {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: h.dbName})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
		MATCH (c:%s {token: $token})-[:%s]->(m:%s)
		RETURN m.%s, m.%s
		ORDER BY m.%s ASC
		`, consts.LabelCaller, consts.RelAsked, consts.LabelExchange,
			consts.ColQuestion, consts.ColAnswer, consts.ColCreatedAt)

		res, err := tx.Run(ctx, query, map[string]any{"token": token})
		if err != nil {
			return nil, err
		}

		var exchanges []history.Exchange
		for res.Next(ctx) {
			record := res.Record()

			question, _ := record.Get("m." + consts.ColQuestion)
			answer, _ := record.Get("m." + consts.ColAnswer)

			exchanges = append(exchanges, history.Exchange{
				Question: question.(string),
				Answer:   answer.(string),
			})
		}

		return exchanges, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]history.Exchange), nil
}

func (h *Neo4jHistory) Close(ctx context.Context) error {
	return h.driver.Close(ctx)
}
