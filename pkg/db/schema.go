package db

// Schema defines the SQLite schema for the invocation journal.
// seq orders records; id is the externally visible invocation ID.
const Schema = `
CREATE TABLE IF NOT EXISTS invocations (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    image TEXT NOT NULL,
    state TEXT NOT NULL CHECK(state IN ('started', 'stopped')),
    upgrade INTEGER NOT NULL DEFAULT 0,
    changed INTEGER NOT NULL DEFAULT 0,
    failed INTEGER NOT NULL DEFAULT 0,
    skipped INTEGER NOT NULL DEFAULT 0,
    rc INTEGER NOT NULL DEFAULT 0,
    message TEXT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_invocations_image ON invocations(image);
CREATE INDEX IF NOT EXISTS idx_invocations_created_at ON invocations(created_at);
`

// Invocation is one journaled module run
type Invocation struct {
	ID        string
	Image     string
	State     string
	Upgrade   bool
	Changed   bool
	Failed    bool
	Skipped   bool
	RC        int
	Message   string
	CreatedAt string
}

// Outcome returns a one-word summary of the run.
func (i *Invocation) Outcome() string {
	switch {
	case i.Failed:
		return "failed"
	case i.Skipped:
		return "skipped"
	case i.Changed:
		return "changed"
	default:
		return "ok"
	}
}
