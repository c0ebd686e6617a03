package catalog

// schemaVersionV1 is the single-table node catalog.
const schemaVersionV1 = 1

// currentSchemaVersion is the target schema version for this build.
const currentSchemaVersion = schemaVersionV1

// schemaV1 stores one row per derived record. position keeps the dataset
// order; node_id is not unique because duplicate ids are tolerated upstream.
var schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);

CREATE TABLE IF NOT EXISTS nodes (
	position     INTEGER PRIMARY KEY,
	node_id      INTEGER NOT NULL,
	name         TEXT NOT NULL,
	lock_hash    TEXT NOT NULL,
	payload      TEXT NOT NULL,
	published_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_node_id ON nodes(node_id);
`
