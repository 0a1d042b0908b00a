package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/pomgrid/pomgrid/internal/store/postgres"
)

const batchSize = 500

// SyncModules upserts module nodes into Neo4j from the committed workspace,
// then links each module to its parent where the parent is local.
func (c *Client) SyncModules(ctx context.Context, projectID uuid.UUID, modules []postgres.Module) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(modules); i += batchSize {
		end := min(i+batchSize, len(modules))
		batch := modules[i:end]

		params := make([]map[string]any, len(batch))
		var links []map[string]any
		for j, m := range batch {
			params[j] = map[string]any{
				"id":         m.ID.String(),
				"groupId":    m.GroupID,
				"artifactId": m.ArtifactID,
				"version":    m.Version,
				"packaging":  m.Packaging,
				"pomPath":    m.PomPath,
				"projectId":  projectID.String(),
			}
			if m.ParentGA != "" {
				links = append(links, map[string]any{
					"childId":   m.ID.String(),
					"parentGa":  m.ParentGA,
					"projectId": projectID.String(),
				})
			}
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			if _, err := tx.Run(ctx, UpsertModuleNode, map[string]any{"modules": params}); err != nil {
				return struct{}{}, err
			}
			if len(links) > 0 {
				if _, err := tx.Run(ctx, LinkModuleParent, map[string]any{"links": links}); err != nil {
					return struct{}{}, err
				}
			}
			return struct{}{}, nil
		})
		if err != nil {
			return fmt.Errorf("sync modules batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// SyncDependencies upserts dependency edges. Edges to modules of the same
// project become Module->Module relationships; everything else becomes an
// Artifact node plus a Module->Artifact edge.
func (c *Client) SyncDependencies(ctx context.Context, projectID uuid.UUID, modules []postgres.Module, deps []postgres.ModuleDependency) error {
	localGA := make(map[string]bool, len(modules))
	for _, m := range modules {
		localGA[m.GroupID+":"+m.ArtifactID] = true
	}

	session := c.Session(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(deps); i += batchSize {
		end := min(i+batchSize, len(deps))
		batch := deps[i:end]

		var artifacts, artifactEdges, moduleEdges []map[string]any
		for _, d := range batch {
			ga := d.GroupID + ":" + d.ArtifactID
			if localGA[ga] {
				moduleEdges = append(moduleEdges, map[string]any{
					"moduleId":  d.ModuleID.String(),
					"targetGa":  ga,
					"scope":     d.Scope,
					"projectId": projectID.String(),
				})
				continue
			}
			gav := ga + ":" + d.Version
			artifacts = append(artifacts, map[string]any{
				"gav":        gav,
				"groupId":    d.GroupID,
				"artifactId": d.ArtifactID,
				"version":    d.Version,
			})
			artifactEdges = append(artifactEdges, map[string]any{
				"moduleId":   d.ModuleID.String(),
				"gav":        gav,
				"scope":      d.Scope,
				"resolved":   d.Resolved,
				"repository": d.Repository,
				"projectId":  projectID.String(),
			})
		}

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			if len(artifacts) > 0 {
				if _, err := tx.Run(ctx, UpsertArtifactNode, map[string]any{"artifacts": artifacts}); err != nil {
					return struct{}{}, err
				}
				if _, err := tx.Run(ctx, UpsertDependencyEdge, map[string]any{"edges": artifactEdges}); err != nil {
					return struct{}{}, err
				}
			}
			if len(moduleEdges) > 0 {
				if _, err := tx.Run(ctx, UpsertModuleDependencyEdge, map[string]any{"edges": moduleEdges}); err != nil {
					return struct{}{}, err
				}
			}
			return struct{}{}, nil
		})
		if err != nil {
			return fmt.Errorf("sync dependencies batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// ClearProject removes a project's module nodes before a fresh sync.
func (c *Client) ClearProject(ctx context.Context, projectID uuid.UUID) error {
	session := c.Session(ctx)
	defer session.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, DeleteProjectNodes, map[string]any{"projectId": projectID.String()})
		return struct{}{}, err
	})
	if err != nil {
		return fmt.Errorf("clear project graph: %w", err)
	}
	return nil
}
