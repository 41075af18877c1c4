package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS goals (
		id        BIGSERIAL PRIMARY KEY,
		title     TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		date      TEXT NOT NULL,
		color     TEXT,
		user_id   BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_goals_user ON goals(user_id, date)`,
	`CREATE TABLE IF NOT EXISTS focus_sessions (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT,
		title         TEXT NOT NULL,
		duration_min  INTEGER NOT NULL,
		elapsed_sec   DOUBLE PRECISION NOT NULL DEFAULT 0,
		pauses_count  INTEGER NOT NULL DEFAULT 0,
		did_pause     BOOLEAN NOT NULL DEFAULT FALSE,
		status        TEXT NOT NULL DEFAULT 'created',
		started_at    TIMESTAMPTZ,
		completed_at  TIMESTAMPTZ,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		plant_growth  DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_focus_sessions_user_started ON focus_sessions(user_id, started_at)`,
	`CREATE TABLE IF NOT EXISTS challenges (
		id               BIGSERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		level            TEXT NOT NULL DEFAULT '',
		creator_name     TEXT NOT NULL,
		creator_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		start_date       DATE,
		end_date         DATE,
		max_participants INTEGER NOT NULL DEFAULT 10,
		group_progress   DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS challenge_tasks (
		id           BIGSERIAL PRIMARY KEY,
		challenge_id BIGINT NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
		position     INTEGER NOT NULL,
		title        TEXT NOT NULL,
		done         BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_challenge_tasks_challenge ON challenge_tasks(challenge_id, position)`,
	`CREATE TABLE IF NOT EXISTS challenge_participants (
		challenge_id BIGINT NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		seq          BIGSERIAL,
		progress     BOOLEAN[] NOT NULL DEFAULT '{}',
		joined_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (challenge_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS comments (
		id           BIGSERIAL PRIMARY KEY,
		challenge_id BIGINT NOT NULL REFERENCES challenges(id) ON DELETE CASCADE,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		user_name    TEXT NOT NULL,
		content      TEXT NOT NULL,
		timestamp    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_comments_challenge ON comments(challenge_id, timestamp)`,
}
