package graph

// Cypher query constants for Neo4j operations.
const (
	// CreateConstraintModuleID ensures Module(id) is unique and indexed.
	CreateConstraintModuleID = `CREATE CONSTRAINT module_id IF NOT EXISTS FOR (m:Module) REQUIRE m.id IS UNIQUE`
	// CreateConstraintArtifactGAV ensures Artifact(gav) is unique and indexed.
	CreateConstraintArtifactGAV = `CREATE CONSTRAINT artifact_gav IF NOT EXISTS FOR (a:Artifact) REQUIRE a.gav IS UNIQUE`

	// UpsertModuleNode merges a module node by its ID and sets all properties.
	UpsertModuleNode = `
UNWIND $modules AS mod
MERGE (m:Module {id: mod.id})
SET m.groupId = mod.groupId,
    m.artifactId = mod.artifactId,
    m.version = mod.version,
    m.packaging = mod.packaging,
    m.pomPath = mod.pomPath,
    m.projectId = mod.projectId
`

	// LinkModuleParent creates HAS_PARENT relationships between modules of
	// the same project, matched by group:artifact key.
	LinkModuleParent = `
UNWIND $links AS link
MATCH (child:Module {id: link.childId})
MATCH (parent:Module {projectId: link.projectId})
WHERE parent.groupId + ':' + parent.artifactId = link.parentGa
MERGE (child)-[:HAS_PARENT]->(parent)
`

	// UpsertArtifactNode merges external artifact nodes keyed by
	// group:artifact:version.
	UpsertArtifactNode = `
UNWIND $artifacts AS art
MERGE (a:Artifact {gav: art.gav})
SET a.groupId = art.groupId,
    a.artifactId = art.artifactId,
    a.version = art.version
`

	// UpsertDependencyEdge merges DEPENDS_ON relationships from a module to
	// an external artifact, carrying scope and resolution outcome.
	UpsertDependencyEdge = `
UNWIND $edges AS edge
MATCH (m:Module {id: edge.moduleId})
MATCH (a:Artifact {gav: edge.gav})
MERGE (m)-[r:DEPENDS_ON {scope: edge.scope}]->(a)
SET r.projectId = edge.projectId,
    r.resolved = edge.resolved,
    r.repository = edge.repository
`

	// UpsertModuleDependencyEdge merges DEPENDS_ON relationships between two
	// modules of the same project.
	UpsertModuleDependencyEdge = `
UNWIND $edges AS edge
MATCH (src:Module {id: edge.moduleId})
MATCH (tgt:Module {projectId: edge.projectId})
WHERE tgt.groupId + ':' + tgt.artifactId = edge.targetGa
MERGE (src)-[r:DEPENDS_ON {scope: edge.scope}]->(tgt)
SET r.projectId = edge.projectId,
    r.resolved = true
`

	// DeleteProjectNodes removes all module nodes and relationships for a
	// project. Shared Artifact nodes stay; orphans are harmless.
	DeleteProjectNodes = `
MATCH (m:Module {projectId: $projectId})
DETACH DELETE m
`
)
