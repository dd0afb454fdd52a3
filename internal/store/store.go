// Package store provides persistence for the fitness-tracking domain with
// three backends: an ephemeral in-memory store (demo mode), SQLite
// (single tenant), and Postgres (multi tenant, household scoped).
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint would be violated.
	ErrDuplicate = errors.New("record already exists")

	// ErrDemoMode is returned by destructive writes in demo mode.
	ErrDemoMode = errors.New("demo mode")
)

// User is an account holder.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	HouseholdID  string    `json:"householdId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Person is a tracked household member.
type Person struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"householdId"`
	Name        string    `json:"name"`
	BirthYear   int       `json:"birthYear,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PantryItem is a stocked food item.
type PantryItem struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"householdId"`
	Name        string    `json:"name"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit,omitempty"`
	Barcode     string    `json:"barcode,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Workout is a logged exercise session.
type Workout struct {
	ID          string    `json:"id"`
	PersonID    string    `json:"personId"`
	HouseholdID string    `json:"householdId"`
	Type        string    `json:"type"`
	DurationMin int       `json:"durationMin"`
	Calories    int       `json:"calories,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	LoggedAt    time.Time `json:"loggedAt"`
}

// Meal is a logged meal with macro breakdown.
type Meal struct {
	ID          string    `json:"id"`
	PersonID    string    `json:"personId"`
	HouseholdID string    `json:"householdId"`
	Name        string    `json:"name"`
	Calories    int       `json:"calories"`
	ProteinG    float64   `json:"proteinG,omitempty"`
	CarbsG      float64   `json:"carbsG,omitempty"`
	FatG        float64   `json:"fatG,omitempty"`
	LoggedAt    time.Time `json:"loggedAt"`
}

// WeightEntry is a logged body weight measurement.
type WeightEntry struct {
	ID          string    `json:"id"`
	PersonID    string    `json:"personId"`
	HouseholdID string    `json:"householdId"`
	WeightKg    float64   `json:"weightKg"`
	LoggedAt    time.Time `json:"loggedAt"`
}

// Recipe is a saved recipe.
type Recipe struct {
	ID           string    `json:"id"`
	HouseholdID  string    `json:"householdId"`
	Title        string    `json:"title"`
	Ingredients  []string  `json:"ingredients"`
	Instructions string    `json:"instructions,omitempty"`
	Calories     int       `json:"calories,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableResult reports the outcome of seeding one table.
type TableResult struct {
	Inserted int    `json:"inserted"`
	Error    string `json:"error,omitempty"`
}

// SeedReport is the per-table breakdown of a seeding run. Seeding is
// best-effort: one table failing does not roll back the others.
type SeedReport struct {
	Tables map[string]TableResult `json:"tables"`
}

// Failed returns the number of tables that reported an error.
func (r *SeedReport) Failed() int {
	failed := 0
	for _, tr := range r.Tables {
		if tr.Error != "" {
			failed++
		}
	}
	return failed
}

// Store is the persistence interface shared by all backends. List and
// lookup operations are scoped by household; an empty householdID means
// "all" and is only used in single-tenant and demo modes.
type Store interface {
	// Users.
	CreateUser(ctx context.Context, u *User) error
	UserByEmail(ctx context.Context, email string) (*User, error)

	// Persons.
	ListPersons(ctx context.Context, householdID string) ([]Person, error)
	GetPerson(ctx context.Context, id string) (*Person, error)
	CreatePerson(ctx context.Context, p *Person) error
	DeletePerson(ctx context.Context, id string) error

	// Pantry.
	ListPantry(ctx context.Context, householdID string) ([]PantryItem, error)
	GetPantryItem(ctx context.Context, id string) (*PantryItem, error)
	CreatePantryItem(ctx context.Context, item *PantryItem) error
	UpdatePantryItem(ctx context.Context, item *PantryItem) error
	DeletePantryItem(ctx context.Context, id string) error

	// Workouts.
	ListWorkouts(ctx context.Context, householdID, personID string) ([]Workout, error)
	GetWorkout(ctx context.Context, id string) (*Workout, error)
	CreateWorkout(ctx context.Context, w *Workout) error
	DeleteWorkout(ctx context.Context, id string) error

	// Meals.
	ListMeals(ctx context.Context, householdID, personID string) ([]Meal, error)
	GetMeal(ctx context.Context, id string) (*Meal, error)
	CreateMeal(ctx context.Context, m *Meal) error
	DeleteMeal(ctx context.Context, id string) error

	// Weights.
	ListWeights(ctx context.Context, householdID, personID string) ([]WeightEntry, error)
	GetWeight(ctx context.Context, id string) (*WeightEntry, error)
	CreateWeight(ctx context.Context, w *WeightEntry) error
	DeleteWeight(ctx context.Context, id string) error

	// Recipes.
	ListRecipes(ctx context.Context, householdID string) ([]Recipe, error)
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	CreateRecipe(ctx context.Context, r *Recipe) error
	DeleteRecipe(ctx context.Context, id string) error

	// Seed populates demo fixtures, best-effort per table.
	Seed(ctx context.Context) (*SeedReport, error)

	// Ping verifies backend connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
