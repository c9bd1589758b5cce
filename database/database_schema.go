package database

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS candle (
		asset text NOT NULL,
		date DATETIME NOT NULL,
		open text NOT NULL,
		high text NOT NULL,
		low text NOT NULL,
		close text NOT NULL,
		volume text NOT NULL,
		PRIMARY KEY (asset, date)
	);`,
	`CREATE TABLE IF NOT EXISTS run (
		id text NOT NULL PRIMARY KEY,
		strategy text NOT NULL,
		start_date DATETIME NOT NULL,
		end_date DATETIME NOT NULL,
		initial_cash text NOT NULL,
		final_equity text NOT NULL,
		log text NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS equity_curve (
		run_id text NOT NULL REFERENCES run(id),
		date DATETIME NOT NULL,
		equity text NOT NULL,
		PRIMARY KEY (run_id, date)
	);`,
	`CREATE TABLE IF NOT EXISTS target_allocation (
		run_id text NOT NULL REFERENCES run(id),
		date DATETIME NOT NULL,
		asset text NOT NULL,
		weight real NOT NULL,
		PRIMARY KEY (run_id, date, asset)
	);`,
	`CREATE TABLE IF NOT EXISTS fill (
		id text NOT NULL PRIMARY KEY,
		run_id text NOT NULL REFERENCES run(id),
		portfolio_id text NOT NULL,
		asset text NOT NULL,
		quantity text NOT NULL,
		price text NOT NULL,
		commission text NOT NULL,
		filled_at DATETIME NOT NULL
	);`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS candle (
		asset varchar(64) NOT NULL,
		date timestamptz NOT NULL,
		open numeric NOT NULL,
		high numeric NOT NULL,
		low numeric NOT NULL,
		close numeric NOT NULL,
		volume numeric NOT NULL,
		PRIMARY KEY (asset, date)
	);`,
	`CREATE TABLE IF NOT EXISTS run (
		id uuid NOT NULL PRIMARY KEY,
		strategy text NOT NULL,
		start_date timestamptz NOT NULL,
		end_date timestamptz NOT NULL,
		initial_cash numeric NOT NULL,
		final_equity numeric NOT NULL,
		log text NOT NULL DEFAULT '',
		created_at timestamptz NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS equity_curve (
		run_id uuid NOT NULL REFERENCES run(id),
		date timestamptz NOT NULL,
		equity numeric NOT NULL,
		PRIMARY KEY (run_id, date)
	);`,
	`CREATE TABLE IF NOT EXISTS target_allocation (
		run_id uuid NOT NULL REFERENCES run(id),
		date timestamptz NOT NULL,
		asset varchar(64) NOT NULL,
		weight double precision NOT NULL,
		PRIMARY KEY (run_id, date, asset)
	);`,
	`CREATE TABLE IF NOT EXISTS fill (
		id uuid NOT NULL PRIMARY KEY,
		run_id uuid NOT NULL REFERENCES run(id),
		portfolio_id text NOT NULL,
		asset varchar(64) NOT NULL,
		quantity numeric NOT NULL,
		price numeric NOT NULL,
		commission numeric NOT NULL,
		filled_at timestamptz NOT NULL
	);`,
}
