package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fittrack.db")
	s, err := NewSQLiteStore(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestSQLiteStore_PersonLifecycle(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	person := &Person{
		ID: "p1", HouseholdID: "h1", Name: "Alex", BirthYear: 1990,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreatePerson(ctx, person))
	assert.ErrorIs(t, s.CreatePerson(ctx, person), ErrDuplicate)

	got, err := s.GetPerson(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Alex", got.Name)
	assert.Equal(t, 1990, got.BirthYear)

	persons, err := s.ListPersons(ctx, "")
	require.NoError(t, err)
	assert.Len(t, persons, 1)

	require.NoError(t, s.DeletePerson(ctx, "p1"))
	assert.ErrorIs(t, s.DeletePerson(ctx, "p1"), ErrNotFound)

	_, err = s.GetPerson(ctx, "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_UserUniqueEmail(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	user := &User{
		ID: "u1", Email: "alex@example.com", PasswordHash: "x",
		HouseholdID: "h1", CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateUser(ctx, user))

	dup := &User{
		ID: "u2", Email: "ALEX@example.com", PasswordHash: "y",
		HouseholdID: "h2", CreatedAt: time.Now().UTC(),
	}
	assert.ErrorIs(t, s.CreateUser(ctx, dup), ErrDuplicate)

	got, err := s.UserByEmail(ctx, "alex@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = s.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_PantryUpdate(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	item := &PantryItem{
		ID: "i1", HouseholdID: "h1", Name: "Oats", Quantity: 1,
		Unit: "kg", UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreatePantryItem(ctx, item))

	item.Quantity = 0.5
	require.NoError(t, s.UpdatePantryItem(ctx, item))

	items, err := s.ListPantry(ctx, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 0.5, items[0].Quantity)

	missing := &PantryItem{ID: "nope", UpdatedAt: time.Now().UTC()}
	assert.ErrorIs(t, s.UpdatePantryItem(ctx, missing), ErrNotFound)
}

func TestSQLiteStore_WorkoutsScopedByPerson(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, p := range []*Person{
		{ID: "p1", Name: "Alex", CreatedAt: now},
		{ID: "p2", Name: "Sam", CreatedAt: now},
	} {
		require.NoError(t, s.CreatePerson(ctx, p))
	}

	require.NoError(t, s.CreateWorkout(ctx, &Workout{
		ID: "w1", PersonID: "p1", HouseholdID: "h1", Type: "run", DurationMin: 30, LoggedAt: now,
	}))
	require.NoError(t, s.CreateWorkout(ctx, &Workout{
		ID: "w2", PersonID: "p2", HouseholdID: "h2", Type: "swim", DurationMin: 20, LoggedAt: now,
	}))

	all, err := s.ListWorkouts(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := s.ListWorkouts(ctx, "", "p1")
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "w1", scoped[0].ID)

	household, err := s.ListWorkouts(ctx, "h2", "")
	require.NoError(t, err)
	require.Len(t, household, 1)
	assert.Equal(t, "w2", household[0].ID)

	none, err := s.ListWorkouts(ctx, "h1", "p2")
	require.NoError(t, err)
	assert.Empty(t, none)

	got, err := s.GetWorkout(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "h1", got.HouseholdID)

	_, err = s.GetWorkout(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_RecipeIngredientsRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	recipe := &Recipe{
		ID: "r1", HouseholdID: "h1", Title: "Overnight oats",
		Ingredients:  []string{"oats", "milk", "honey"},
		Instructions: "Mix and refrigerate.",
		Calories:     420,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.CreateRecipe(ctx, recipe))

	got, err := s.GetRecipe(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, []string{"oats", "milk", "honey"}, got.Ingredients)

	_, err = s.GetRecipe(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_SeedIdempotent(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	report, err := s.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Failed())
	assert.Equal(t, 2, report.Tables["persons"].Inserted)

	// Second run finds everything already present.
	report, err = s.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Failed())
	assert.Equal(t, 0, report.Tables["persons"].Inserted)

	persons, err := s.ListPersons(ctx, "")
	require.NoError(t, err)
	assert.Len(t, persons, 2)
}

func TestSQLiteStore_Ping(t *testing.T) {
	s := newTestSQLiteStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
