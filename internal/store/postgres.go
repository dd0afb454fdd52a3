package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// postgresSchema creates all tables. Households are the tenant boundary in
// multi-tenant mode; every list query filters on household_id.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	household_id TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS persons (
	id TEXT PRIMARY KEY,
	household_id TEXT NOT NULL,
	name TEXT NOT NULL,
	birth_year INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS persons_household_idx ON persons (household_id);
CREATE TABLE IF NOT EXISTS pantry_items (
	id TEXT PRIMARY KEY,
	household_id TEXT NOT NULL,
	name TEXT NOT NULL,
	quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
	unit TEXT NOT NULL DEFAULT '',
	barcode TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS pantry_household_idx ON pantry_items (household_id);
CREATE TABLE IF NOT EXISTS workouts (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	household_id TEXT NOT NULL,
	type TEXT NOT NULL,
	duration_min INT NOT NULL DEFAULT 0,
	calories INT NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	logged_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS workouts_person_idx ON workouts (person_id);
CREATE TABLE IF NOT EXISTS meals (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	household_id TEXT NOT NULL,
	name TEXT NOT NULL,
	calories INT NOT NULL DEFAULT 0,
	protein_g DOUBLE PRECISION NOT NULL DEFAULT 0,
	carbs_g DOUBLE PRECISION NOT NULL DEFAULT 0,
	fat_g DOUBLE PRECISION NOT NULL DEFAULT 0,
	logged_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS meals_person_idx ON meals (person_id);
CREATE TABLE IF NOT EXISTS weight_entries (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	household_id TEXT NOT NULL,
	weight_kg DOUBLE PRECISION NOT NULL,
	logged_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS weights_person_idx ON weight_entries (person_id);
CREATE TABLE IF NOT EXISTS recipes (
	id TEXT PRIMARY KEY,
	household_id TEXT NOT NULL,
	title TEXT NOT NULL,
	ingredients TEXT[] NOT NULL DEFAULT '{}',
	instructions TEXT NOT NULL DEFAULT '',
	calories INT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS recipes_household_idx ON recipes (household_id);
`

// PostgresStore is the multi-tenant backend.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to Postgres and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// CreateUser implements Store.
func (s *PostgresStore) CreateUser(ctx context.Context, u *User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, household_id, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.PasswordHash, u.HouseholdID, u.CreatedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByEmail implements Store.
func (s *PostgresStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, household_id, created_at
		 FROM users WHERE lower(email) = lower($1)`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.HouseholdID, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// ListPersons implements Store.
func (s *PostgresStore) ListPersons(ctx context.Context, householdID string) ([]Person, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, household_id, name, birth_year, created_at
		 FROM persons WHERE ($1 = '' OR household_id = $1) ORDER BY id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("select persons: %w", err)
	}
	defer rows.Close()

	var persons []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.HouseholdID, &p.Name, &p.BirthYear, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

// GetPerson implements Store.
func (s *PostgresStore) GetPerson(ctx context.Context, id string) (*Person, error) {
	p := &Person{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, household_id, name, birth_year, created_at
		 FROM persons WHERE id = $1`, id).
		Scan(&p.ID, &p.HouseholdID, &p.Name, &p.BirthYear, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select person: %w", err)
	}
	return p, nil
}

// CreatePerson implements Store.
func (s *PostgresStore) CreatePerson(ctx context.Context, p *Person) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO persons (id, household_id, name, birth_year, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.HouseholdID, p.Name, p.BirthYear, p.CreatedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// DeletePerson implements Store.
func (s *PostgresStore) DeletePerson(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "persons", id)
}

// ListPantry implements Store.
func (s *PostgresStore) ListPantry(ctx context.Context, householdID string) ([]PantryItem, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, household_id, name, quantity, unit, barcode, updated_at
		 FROM pantry_items WHERE ($1 = '' OR household_id = $1) ORDER BY id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("select pantry: %w", err)
	}
	defer rows.Close()

	var items []PantryItem
	for rows.Next() {
		var item PantryItem
		if err := rows.Scan(&item.ID, &item.HouseholdID, &item.Name, &item.Quantity,
			&item.Unit, &item.Barcode, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pantry item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetPantryItem implements Store.
func (s *PostgresStore) GetPantryItem(ctx context.Context, id string) (*PantryItem, error) {
	item := &PantryItem{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, household_id, name, quantity, unit, barcode, updated_at
		 FROM pantry_items WHERE id = $1`, id).
		Scan(&item.ID, &item.HouseholdID, &item.Name, &item.Quantity,
			&item.Unit, &item.Barcode, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select pantry item: %w", err)
	}
	return item, nil
}

// CreatePantryItem implements Store.
func (s *PostgresStore) CreatePantryItem(ctx context.Context, item *PantryItem) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO pantry_items (id, household_id, name, quantity, unit, barcode, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.HouseholdID, item.Name, item.Quantity, item.Unit, item.Barcode, item.UpdatedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert pantry item: %w", err)
	}
	return nil
}

// UpdatePantryItem implements Store.
func (s *PostgresStore) UpdatePantryItem(ctx context.Context, item *PantryItem) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pantry_items SET name = $1, quantity = $2, unit = $3, barcode = $4, updated_at = $5
		 WHERE id = $6`,
		item.Name, item.Quantity, item.Unit, item.Barcode, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("update pantry item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePantryItem implements Store.
func (s *PostgresStore) DeletePantryItem(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "pantry_items", id)
}

// ListWorkouts implements Store.
func (s *PostgresStore) ListWorkouts(ctx context.Context, householdID, personID string) ([]Workout, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, person_id, household_id, type, duration_min, calories, notes, logged_at
		 FROM workouts WHERE ($1 = '' OR household_id = $1) AND ($2 = '' OR person_id = $2)
		 ORDER BY logged_at`, householdID, personID)
	if err != nil {
		return nil, fmt.Errorf("select workouts: %w", err)
	}
	defer rows.Close()

	var workouts []Workout
	for rows.Next() {
		var w Workout
		if err := rows.Scan(&w.ID, &w.PersonID, &w.HouseholdID, &w.Type,
			&w.DurationMin, &w.Calories, &w.Notes, &w.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// GetWorkout implements Store.
func (s *PostgresStore) GetWorkout(ctx context.Context, id string) (*Workout, error) {
	w := &Workout{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, person_id, household_id, type, duration_min, calories, notes, logged_at
		 FROM workouts WHERE id = $1`, id).
		Scan(&w.ID, &w.PersonID, &w.HouseholdID, &w.Type,
			&w.DurationMin, &w.Calories, &w.Notes, &w.LoggedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select workout: %w", err)
	}
	return w, nil
}

// CreateWorkout implements Store.
func (s *PostgresStore) CreateWorkout(ctx context.Context, w *Workout) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO workouts (id, person_id, household_id, type, duration_min, calories, notes, logged_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		w.ID, w.PersonID, w.HouseholdID, w.Type, w.DurationMin, w.Calories, w.Notes, w.LoggedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert workout: %w", err)
	}
	return nil
}

// DeleteWorkout implements Store.
func (s *PostgresStore) DeleteWorkout(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "workouts", id)
}

// ListMeals implements Store.
func (s *PostgresStore) ListMeals(ctx context.Context, householdID, personID string) ([]Meal, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, person_id, household_id, name, calories, protein_g, carbs_g, fat_g, logged_at
		 FROM meals WHERE ($1 = '' OR household_id = $1) AND ($2 = '' OR person_id = $2)
		 ORDER BY logged_at`, householdID, personID)
	if err != nil {
		return nil, fmt.Errorf("select meals: %w", err)
	}
	defer rows.Close()

	var meals []Meal
	for rows.Next() {
		var m Meal
		if err := rows.Scan(&m.ID, &m.PersonID, &m.HouseholdID, &m.Name,
			&m.Calories, &m.ProteinG, &m.CarbsG, &m.FatG, &m.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// GetMeal implements Store.
func (s *PostgresStore) GetMeal(ctx context.Context, id string) (*Meal, error) {
	m := &Meal{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, person_id, household_id, name, calories, protein_g, carbs_g, fat_g, logged_at
		 FROM meals WHERE id = $1`, id).
		Scan(&m.ID, &m.PersonID, &m.HouseholdID, &m.Name,
			&m.Calories, &m.ProteinG, &m.CarbsG, &m.FatG, &m.LoggedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select meal: %w", err)
	}
	return m, nil
}

// CreateMeal implements Store.
func (s *PostgresStore) CreateMeal(ctx context.Context, m *Meal) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO meals (id, person_id, household_id, name, calories, protein_g, carbs_g, fat_g, logged_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.PersonID, m.HouseholdID, m.Name, m.Calories, m.ProteinG, m.CarbsG, m.FatG, m.LoggedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

// DeleteMeal implements Store.
func (s *PostgresStore) DeleteMeal(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "meals", id)
}

// ListWeights implements Store.
func (s *PostgresStore) ListWeights(ctx context.Context, householdID, personID string) ([]WeightEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, person_id, household_id, weight_kg, logged_at
		 FROM weight_entries WHERE ($1 = '' OR household_id = $1) AND ($2 = '' OR person_id = $2)
		 ORDER BY logged_at`, householdID, personID)
	if err != nil {
		return nil, fmt.Errorf("select weights: %w", err)
	}
	defer rows.Close()

	var weights []WeightEntry
	for rows.Next() {
		var w WeightEntry
		if err := rows.Scan(&w.ID, &w.PersonID, &w.HouseholdID, &w.WeightKg, &w.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan weight entry: %w", err)
		}
		weights = append(weights, w)
	}
	return weights, rows.Err()
}

// GetWeight implements Store.
func (s *PostgresStore) GetWeight(ctx context.Context, id string) (*WeightEntry, error) {
	w := &WeightEntry{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, person_id, household_id, weight_kg, logged_at
		 FROM weight_entries WHERE id = $1`, id).
		Scan(&w.ID, &w.PersonID, &w.HouseholdID, &w.WeightKg, &w.LoggedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select weight entry: %w", err)
	}
	return w, nil
}

// CreateWeight implements Store.
func (s *PostgresStore) CreateWeight(ctx context.Context, w *WeightEntry) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO weight_entries (id, person_id, household_id, weight_kg, logged_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.PersonID, w.HouseholdID, w.WeightKg, w.LoggedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert weight entry: %w", err)
	}
	return nil
}

// DeleteWeight implements Store.
func (s *PostgresStore) DeleteWeight(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "weight_entries", id)
}

// ListRecipes implements Store.
func (s *PostgresStore) ListRecipes(ctx context.Context, householdID string) ([]Recipe, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, household_id, title, ingredients, instructions, calories, created_at
		 FROM recipes WHERE ($1 = '' OR household_id = $1) ORDER BY id`, householdID)
	if err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.HouseholdID, &r.Title, &r.Ingredients,
			&r.Instructions, &r.Calories, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// GetRecipe implements Store.
func (s *PostgresStore) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	r := &Recipe{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, household_id, title, ingredients, instructions, calories, created_at
		 FROM recipes WHERE id = $1`, id).
		Scan(&r.ID, &r.HouseholdID, &r.Title, &r.Ingredients,
			&r.Instructions, &r.Calories, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select recipe: %w", err)
	}
	return r, nil
}

// CreateRecipe implements Store.
func (s *PostgresStore) CreateRecipe(ctx context.Context, r *Recipe) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO recipes (id, household_id, title, ingredients, instructions, calories, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.HouseholdID, r.Title, r.Ingredients, r.Instructions, r.Calories, r.CreatedAt)
	if err != nil {
		if isPGUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

// DeleteRecipe implements Store.
func (s *PostgresStore) DeleteRecipe(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "recipes", id)
}

// Seed implements Store: inserts fixtures best-effort per table.
func (s *PostgresStore) Seed(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{Tables: make(map[string]TableResult)}

	report.Tables["persons"] = seedTable(fixturePersons(), func(p Person) error {
		return s.CreatePerson(ctx, &p)
	})
	report.Tables["pantry"] = seedTable(fixturePantry(), func(item PantryItem) error {
		return s.CreatePantryItem(ctx, &item)
	})
	report.Tables["workouts"] = seedTable(fixtureWorkouts(), func(w Workout) error {
		return s.CreateWorkout(ctx, &w)
	})
	report.Tables["meals"] = seedTable(fixtureMeals(), func(m Meal) error {
		return s.CreateMeal(ctx, &m)
	})
	report.Tables["weights"] = seedTable(fixtureWeights(), func(w WeightEntry) error {
		return s.CreateWeight(ctx, &w)
	})
	report.Tables["recipes"] = seedTable(fixtureRecipes(), func(r Recipe) error {
		return s.CreateRecipe(ctx, &r)
	})

	return report, nil
}

// Ping implements Store.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// deleteByID deletes one row by primary key, mapping zero rows to ErrNotFound.
func (s *PostgresStore) deleteByID(ctx context.Context, table, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// isPGUniqueViolation reports whether err is a unique constraint violation.
func isPGUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
