package database

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "initial_schema",
		sql: `
			-- Seat tokens for human players
			CREATE TABLE players (
				id TEXT PRIMARY KEY,
				token TEXT UNIQUE NOT NULL,
				name TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				last_seen_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_players_token ON players(token);

			CREATE TABLE games (
				id TEXT PRIMARY KEY,
				layout_id TEXT NOT NULL,
				seed INTEGER NOT NULL,
				victory_points INTEGER NOT NULL,
				status TEXT NOT NULL DEFAULT 'started',
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				ended_at DATETIME
			);
			CREATE INDEX idx_games_status ON games(status);

			-- Seats in turn order
			CREATE TABLE game_players (
				game_id TEXT NOT NULL,
				player_id TEXT NOT NULL,
				seat INTEGER NOT NULL,
				name TEXT NOT NULL,
				color TEXT NOT NULL,
				is_ai BOOLEAN DEFAULT FALSE,
				difficulty TEXT,
				PRIMARY KEY (game_id, player_id),
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_game_players_game ON game_players(game_id);

			-- Accepted actions in application order
			CREATE TABLE game_actions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				game_id TEXT NOT NULL,
				seq INTEGER NOT NULL,
				player_id TEXT,
				action_type TEXT NOT NULL,
				action_json TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);
			CREATE UNIQUE INDEX idx_game_actions_seq ON game_actions(game_id, seq);

			CREATE TABLE game_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				game_id TEXT NOT NULL,
				seq INTEGER NOT NULL,
				turn INTEGER NOT NULL,
				player_id TEXT,
				event_type TEXT NOT NULL,
				message TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_game_history_game ON game_history(game_id, seq);

			CREATE TABLE game_results (
				game_id TEXT PRIMARY KEY,
				winner_id TEXT NOT NULL,
				turns INTEGER NOT NULL,
				standings_json TEXT NOT NULL,
				finished_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);
		`,
	},
	{
		id:   2,
		name: "add_action_digest",
		sql: `
			-- State digest after the action, for replay checks
			ALTER TABLE game_actions ADD COLUMN digest TEXT;
		`,
	},
}
