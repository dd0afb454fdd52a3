package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// sqliteSchema creates all tables. SQLite mode assumes a single household,
// so household_id columns exist for parity with Postgres but are not used
// as tenant boundaries.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE COLLATE NOCASE,
	password_hash TEXT NOT NULL,
	household_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS persons (
	id TEXT PRIMARY KEY,
	household_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	birth_year INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS pantry_items (
	id TEXT PRIMARY KEY,
	household_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	quantity REAL NOT NULL DEFAULT 0,
	unit TEXT NOT NULL DEFAULT '',
	barcode TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS workouts (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	household_id TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL,
	duration_min INTEGER NOT NULL DEFAULT 0,
	calories INTEGER NOT NULL DEFAULT 0,
	notes TEXT NOT NULL DEFAULT '',
	logged_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS meals (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	household_id TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	calories INTEGER NOT NULL DEFAULT 0,
	protein_g REAL NOT NULL DEFAULT 0,
	carbs_g REAL NOT NULL DEFAULT 0,
	fat_g REAL NOT NULL DEFAULT 0,
	logged_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS weight_entries (
	id TEXT PRIMARY KEY,
	person_id TEXT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
	household_id TEXT NOT NULL DEFAULT '',
	weight_kg REAL NOT NULL,
	logged_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS recipes (
	id TEXT PRIMARY KEY,
	household_id TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL,
	ingredients TEXT NOT NULL DEFAULT '[]',
	instructions TEXT NOT NULL DEFAULT '',
	calories INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
);
`

// SQLiteStore is the single-tenant backend.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the SQLite database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// CreateUser implements Store.
func (s *SQLiteStore) CreateUser(ctx context.Context, u *User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, household_id, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.HouseholdID, u.CreatedAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByEmail implements Store.
func (s *SQLiteStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, household_id, created_at
		 FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.HouseholdID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}

// ListPersons implements Store. householdID is ignored in single-tenant mode.
func (s *SQLiteStore) ListPersons(ctx context.Context, householdID string) ([]Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, birth_year, created_at
		 FROM persons ORDER BY id`)
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
func (s *SQLiteStore) GetPerson(ctx context.Context, id string) (*Person, error) {
	p := &Person{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, name, birth_year, created_at
		 FROM persons WHERE id = ?`, id).
		Scan(&p.ID, &p.HouseholdID, &p.Name, &p.BirthYear, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select person: %w", err)
	}
	return p, nil
}

// CreatePerson implements Store.
func (s *SQLiteStore) CreatePerson(ctx context.Context, p *Person) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO persons (id, household_id, name, birth_year, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.HouseholdID, p.Name, p.BirthYear, p.CreatedAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

// DeletePerson implements Store.
func (s *SQLiteStore) DeletePerson(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "persons", id)
}

// ListPantry implements Store.
func (s *SQLiteStore) ListPantry(ctx context.Context, householdID string) ([]PantryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, name, quantity, unit, barcode, updated_at
		 FROM pantry_items ORDER BY id`)
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
func (s *SQLiteStore) GetPantryItem(ctx context.Context, id string) (*PantryItem, error) {
	item := &PantryItem{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, name, quantity, unit, barcode, updated_at
		 FROM pantry_items WHERE id = ?`, id).
		Scan(&item.ID, &item.HouseholdID, &item.Name, &item.Quantity,
			&item.Unit, &item.Barcode, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select pantry item: %w", err)
	}
	return item, nil
}

// CreatePantryItem implements Store.
func (s *SQLiteStore) CreatePantryItem(ctx context.Context, item *PantryItem) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pantry_items (id, household_id, name, quantity, unit, barcode, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.HouseholdID, item.Name, item.Quantity, item.Unit, item.Barcode, item.UpdatedAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert pantry item: %w", err)
	}
	return nil
}

// UpdatePantryItem implements Store.
func (s *SQLiteStore) UpdatePantryItem(ctx context.Context, item *PantryItem) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE pantry_items SET name = ?, quantity = ?, unit = ?, barcode = ?, updated_at = ?
		 WHERE id = ?`,
		item.Name, item.Quantity, item.Unit, item.Barcode, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("update pantry item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pantry item: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePantryItem implements Store.
func (s *SQLiteStore) DeletePantryItem(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "pantry_items", id)
}

// ListWorkouts implements Store.
func (s *SQLiteStore) ListWorkouts(ctx context.Context, householdID, personID string) ([]Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, person_id, household_id, type, duration_min, calories, notes, logged_at
		 FROM workouts WHERE (? = '' OR household_id = ?) AND (? = '' OR person_id = ?)
		 ORDER BY logged_at`,
		householdID, householdID, personID, personID)
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
func (s *SQLiteStore) GetWorkout(ctx context.Context, id string) (*Workout, error) {
	w := &Workout{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, person_id, household_id, type, duration_min, calories, notes, logged_at
		 FROM workouts WHERE id = ?`, id).
		Scan(&w.ID, &w.PersonID, &w.HouseholdID, &w.Type,
			&w.DurationMin, &w.Calories, &w.Notes, &w.LoggedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select workout: %w", err)
	}
	return w, nil
}

// CreateWorkout implements Store.
func (s *SQLiteStore) CreateWorkout(ctx context.Context, w *Workout) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workouts (id, person_id, household_id, type, duration_min, calories, notes, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.PersonID, w.HouseholdID, w.Type, w.DurationMin, w.Calories, w.Notes, w.LoggedAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert workout: %w", err)
	}
	return nil
}

// DeleteWorkout implements Store.
func (s *SQLiteStore) DeleteWorkout(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "workouts", id)
}

// ListMeals implements Store.
func (s *SQLiteStore) ListMeals(ctx context.Context, householdID, personID string) ([]Meal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, person_id, household_id, name, calories, protein_g, carbs_g, fat_g, logged_at
		 FROM meals WHERE (? = '' OR household_id = ?) AND (? = '' OR person_id = ?)
		 ORDER BY logged_at`,
		householdID, householdID, personID, personID)
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
func (s *SQLiteStore) GetMeal(ctx context.Context, id string) (*Meal, error) {
	m := &Meal{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, person_id, household_id, name, calories, protein_g, carbs_g, fat_g, logged_at
		 FROM meals WHERE id = ?`, id).
		Scan(&m.ID, &m.PersonID, &m.HouseholdID, &m.Name,
			&m.Calories, &m.ProteinG, &m.CarbsG, &m.FatG, &m.LoggedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select meal: %w", err)
	}
	return m, nil
}

// CreateMeal implements Store.
func (s *SQLiteStore) CreateMeal(ctx context.Context, m *Meal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meals (id, person_id, household_id, name, calories, protein_g, carbs_g, fat_g, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.PersonID, m.HouseholdID, m.Name, m.Calories, m.ProteinG, m.CarbsG, m.FatG, m.LoggedAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert meal: %w", err)
	}
	return nil
}

// DeleteMeal implements Store.
func (s *SQLiteStore) DeleteMeal(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "meals", id)
}

// ListWeights implements Store.
func (s *SQLiteStore) ListWeights(ctx context.Context, householdID, personID string) ([]WeightEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, person_id, household_id, weight_kg, logged_at
		 FROM weight_entries WHERE (? = '' OR household_id = ?) AND (? = '' OR person_id = ?)
		 ORDER BY logged_at`,
		householdID, householdID, personID, personID)
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
func (s *SQLiteStore) GetWeight(ctx context.Context, id string) (*WeightEntry, error) {
	w := &WeightEntry{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, person_id, household_id, weight_kg, logged_at
		 FROM weight_entries WHERE id = ?`, id).
		Scan(&w.ID, &w.PersonID, &w.HouseholdID, &w.WeightKg, &w.LoggedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select weight entry: %w", err)
	}
	return w, nil
}

// CreateWeight implements Store.
func (s *SQLiteStore) CreateWeight(ctx context.Context, w *WeightEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weight_entries (id, person_id, household_id, weight_kg, logged_at)
		 VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.PersonID, w.HouseholdID, w.WeightKg, w.LoggedAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert weight entry: %w", err)
	}
	return nil
}

// DeleteWeight implements Store.
func (s *SQLiteStore) DeleteWeight(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "weight_entries", id)
}

// ListRecipes implements Store.
func (s *SQLiteStore) ListRecipes(ctx context.Context, householdID string) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, household_id, title, ingredients, instructions, calories, created_at
		 FROM recipes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		r, err := scanRecipe(rows.Scan)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *r)
	}
	return recipes, rows.Err()
}

// GetRecipe implements Store.
func (s *SQLiteStore) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, household_id, title, ingredients, instructions, calories, created_at
		 FROM recipes WHERE id = ?`, id)

	r, err := scanRecipe(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// CreateRecipe implements Store.
func (s *SQLiteStore) CreateRecipe(ctx context.Context, r *Recipe) error {
	ingredients, err := json.Marshal(r.Ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO recipes (id, household_id, title, ingredients, instructions, calories, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.HouseholdID, r.Title, string(ingredients), r.Instructions, r.Calories, r.CreatedAt)
	if err != nil {
		if isSQLiteUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

// DeleteRecipe implements Store.
func (s *SQLiteStore) DeleteRecipe(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "recipes", id)
}

// Seed implements Store: inserts fixtures best-effort per table, skipping
// rows that already exist.
func (s *SQLiteStore) Seed(ctx context.Context) (*SeedReport, error) {
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
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// deleteByID deletes one row by primary key, mapping zero rows to ErrNotFound.
func (s *SQLiteStore) deleteByID(ctx context.Context, table, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// scanRecipe scans a recipe row, decoding the ingredients JSON column.
func scanRecipe(scan func(dest ...any) error) (*Recipe, error) {
	r := &Recipe{}
	var ingredients string
	if err := scan(&r.ID, &r.HouseholdID, &r.Title, &ingredients,
		&r.Instructions, &r.Calories, &r.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(ingredients), &r.Ingredients); err != nil {
		return nil, fmt.Errorf("decode ingredients: %w", err)
	}
	return r, nil
}

// seedTable inserts fixtures one by one, counting successes. Duplicates are
// counted as already present, any other error aborts the table but not the
// overall run.
func seedTable[T any](fixtures []T, insert func(T) error) TableResult {
	inserted := 0
	for _, f := range fixtures {
		err := insert(f)
		if errors.Is(err, ErrDuplicate) {
			continue
		}
		if err != nil {
			return TableResult{Inserted: inserted, Error: err.Error()}
		}
		inserted++
	}
	return TableResult{Inserted: inserted}
}

// isSQLiteUniqueViolation reports whether err is a UNIQUE constraint failure.
func isSQLiteUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
