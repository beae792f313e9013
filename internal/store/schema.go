package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications (
    identifier           TEXT PRIMARY KEY,
    title                TEXT NOT NULL,
    body                 TEXT NOT NULL,
    fire_at              INTEGER NOT NULL,
    repeat_hour          INTEGER NOT NULL DEFAULT -1,
    created_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_fire_at ON notifications(fire_at);
`
