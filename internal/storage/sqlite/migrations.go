package sqlite

// schema contains the database schema DDL.
const schema = `
-- One row per shared collection; revision increments on every commit.
CREATE TABLE IF NOT EXISTS collections (
    name TEXT PRIMARY KEY,
    revision INTEGER NOT NULL DEFAULT 1,
    origin TEXT NOT NULL,
    data TEXT NOT NULL,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
