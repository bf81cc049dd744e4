package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielpatrickdp/loopforge/internal/agent"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS agents (
	name          TEXT PRIMARY KEY,
	role          TEXT NOT NULL,
	location      TEXT NOT NULL,
	battery       INTEGER NOT NULL,
	emotions_json TEXT NOT NULL,
	traits_json   TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS actions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	episode_index INTEGER NOT NULL,
	day_index     INTEGER NOT NULL,
	step          INTEGER NOT NULL,
	agent_name    TEXT NOT NULL,
	intent        TEXT NOT NULL,
	mode          TEXT NOT NULL,
	outcome       TEXT NOT NULL,
	action_json   TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (agent_name) REFERENCES agents(name)
);

CREATE TABLE IF NOT EXISTS memories (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	episode_index INTEGER NOT NULL,
	day_index     INTEGER NOT NULL,
	agent_name    TEXT NOT NULL,
	kind          TEXT NOT NULL,
	body_json     TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	FOREIGN KEY (agent_name) REFERENCES agents(name)
);

CREATE TABLE IF NOT EXISTS events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id        TEXT NOT NULL,
	episode_index INTEGER NOT NULL,
	day_index     INTEGER NOT NULL,
	step          INTEGER NOT NULL,
	event_type    TEXT NOT NULL,
	location      TEXT NOT NULL,
	description   TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
`
// #endregion schema

// #region store-struct
// Store persists run history in SQLite. It is a collaborator of the
// simulation, never an authority: the in-memory state is truth and the
// store is a durable trace of it.
type Store struct {
	db    *sql.DB
	runID string
}
// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database, runs migrations, and assigns a fresh
// run ID for this process.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, runID: uuid.New().String()}, nil
}
// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunID returns the identifier assigned to this process's run.
func (s *Store) RunID() string { return s.runID }
// #endregion close

// #region seed
// SeedAgents upserts the cast so foreign keys hold before the first day.
func (s *Store) SeedAgents(agents []*agent.Agent) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, a := range agents {
		if err := upsertAgent(tx, a); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func upsertAgent(tx *sql.Tx, a *agent.Agent) error {
	emoJSON, err := json.Marshal(a.Emotions)
	if err != nil {
		return fmt.Errorf("marshal emotions: %w", err)
	}
	trJSON, err := json.Marshal(a.Traits)
	if err != nil {
		return fmt.Errorf("marshal traits: %w", err)
	}
	_, err = tx.Exec(
		`INSERT INTO agents (name, role, location, battery, emotions_json, traits_json, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			role = excluded.role,
			location = excluded.location,
			battery = excluded.battery,
			emotions_json = excluded.emotions_json,
			traits_json = excluded.traits_json,
			updated_at = excluded.updated_at`,
		a.Name, a.Role, a.Location, a.Battery,
		string(emoJSON), string(trJSON), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("upsert agent %s: %w", a.Name, err)
	}
	return nil
}
// #endregion seed

// #region day-tx
// DayTx is one day's persistence scope. All of a day's rows commit or none
// do.
type DayTx struct {
	tx           *sql.Tx
	runID        string
	episodeIndex int
	dayIndex     int
}

// WithDay runs fn inside a transaction scoped to one simulated day.
func (s *Store) WithDay(episodeIndex, dayIndex int, fn func(*DayTx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	d := &DayTx{tx: tx, runID: s.runID, episodeIndex: episodeIndex, dayIndex: dayIndex}
	if err := fn(d); err != nil {
		return err
	}
	return tx.Commit()
}

// AppendAction records one resolved action. The full record rides along as
// JSON; the indexed columns exist for querying.
func (d *DayTx) AppendAction(step int, agentName, intent, mode, outcome string, action any) error {
	body, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("marshal action: %w", err)
	}
	_, err = d.tx.Exec(
		`INSERT INTO actions (run_id, episode_index, day_index, step, agent_name, intent, mode, outcome, action_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.runID, d.episodeIndex, d.dayIndex, step, agentName, intent, mode, outcome,
		string(body), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert action: %w", err)
	}
	return nil
}

// AppendMemory records a reflection or message row for one agent.
func (d *DayTx) AppendMemory(agentName, kind string, body any) error {
	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal memory: %w", err)
	}
	_, err = d.tx.Exec(
		`INSERT INTO memories (run_id, episode_index, day_index, agent_name, kind, body_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.runID, d.episodeIndex, d.dayIndex, agentName, kind,
		string(bodyJSON), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert memory: %w", err)
	}
	return nil
}

// AppendEvent records one environment event.
func (d *DayTx) AppendEvent(step int, eventType, location, description string) error {
	_, err := d.tx.Exec(
		`INSERT INTO events (run_id, episode_index, day_index, step, event_type, location, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.runID, d.episodeIndex, d.dayIndex, step, eventType, location, description,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// UpdateAgent refreshes one agent's persisted state.
func (d *DayTx) UpdateAgent(a *agent.Agent) error {
	return upsertAgent(d.tx, a)
}
// #endregion day-tx

// #region queries
// CountActions returns how many action rows this run has written.
func (s *Store) CountActions() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM actions WHERE run_id = ?`, s.runID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count actions: %w", err)
	}
	return n, nil
}

// LoadAgentTraits reads back one agent's persisted traits.
func (s *Store) LoadAgentTraits(name string) (agent.Traits, error) {
	var trJSON string
	err := s.db.QueryRow(`SELECT traits_json FROM agents WHERE name = ?`, name).Scan(&trJSON)
	if err != nil {
		return agent.Traits{}, fmt.Errorf("load agent %s: %w", name, err)
	}
	var tr agent.Traits
	if err := json.Unmarshal([]byte(trJSON), &tr); err != nil {
		return agent.Traits{}, fmt.Errorf("unmarshal traits: %w", err)
	}
	return tr, nil
}
// #endregion queries
