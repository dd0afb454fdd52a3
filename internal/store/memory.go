package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is the demo-mode backend: prepopulated fixtures, reads work,
// destructive writes are rejected with ErrDemoMode so no client can mutate
// shared demo data. Additive writes (logging a workout or meal) are accepted
// but ephemeral.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]*User
	persons  map[string]*Person
	pantry   map[string]*PantryItem
	workouts map[string]*Workout
	meals    map[string]*Meal
	weights  map[string]*WeightEntry
	recipes  map[string]*Recipe
}

// NewMemoryStore creates a demo store preloaded with fixtures.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		users:    make(map[string]*User),
		persons:  make(map[string]*Person),
		pantry:   make(map[string]*PantryItem),
		workouts: make(map[string]*Workout),
		meals:    make(map[string]*Meal),
		weights:  make(map[string]*WeightEntry),
		recipes:  make(map[string]*Recipe),
	}
	_, _ = s.Seed(context.Background())
	return s
}

// CreateUser implements Store. Signup is rejected in demo mode.
func (s *MemoryStore) CreateUser(ctx context.Context, u *User) error {
	return ErrDemoMode
}

// UserByEmail implements Store.
func (s *MemoryStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// ListPersons implements Store.
func (s *MemoryStore) ListPersons(ctx context.Context, householdID string) ([]Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	persons := make([]Person, 0, len(s.persons))
	for _, p := range s.persons {
		if householdID == "" || p.HouseholdID == householdID {
			persons = append(persons, *p)
		}
	}
	sort.Slice(persons, func(i, j int) bool { return persons[i].ID < persons[j].ID })
	return persons, nil
}

// GetPerson implements Store.
func (s *MemoryStore) GetPerson(ctx context.Context, id string) (*Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.persons[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

// CreatePerson implements Store.
func (s *MemoryStore) CreatePerson(ctx context.Context, p *Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.persons[p.ID]; exists {
		return ErrDuplicate
	}
	copied := *p
	s.persons[p.ID] = &copied
	return nil
}

// DeletePerson implements Store. Deleting shared demo data is rejected.
func (s *MemoryStore) DeletePerson(ctx context.Context, id string) error {
	return ErrDemoMode
}

// ListPantry implements Store.
func (s *MemoryStore) ListPantry(ctx context.Context, householdID string) ([]PantryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]PantryItem, 0, len(s.pantry))
	for _, item := range s.pantry {
		if householdID == "" || item.HouseholdID == householdID {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// GetPantryItem implements Store.
func (s *MemoryStore) GetPantryItem(ctx context.Context, id string) (*PantryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.pantry[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *item
	return &copied, nil
}

// CreatePantryItem implements Store.
func (s *MemoryStore) CreatePantryItem(ctx context.Context, item *PantryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pantry[item.ID]; exists {
		return ErrDuplicate
	}
	copied := *item
	s.pantry[item.ID] = &copied
	return nil
}

// UpdatePantryItem implements Store.
func (s *MemoryStore) UpdatePantryItem(ctx context.Context, item *PantryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.pantry[item.ID]; !exists {
		return ErrNotFound
	}
	copied := *item
	s.pantry[item.ID] = &copied
	return nil
}

// DeletePantryItem implements Store.
func (s *MemoryStore) DeletePantryItem(ctx context.Context, id string) error {
	return ErrDemoMode
}

// ListWorkouts implements Store.
func (s *MemoryStore) ListWorkouts(ctx context.Context, householdID, personID string) ([]Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	workouts := make([]Workout, 0)
	for _, w := range s.workouts {
		if (householdID == "" || w.HouseholdID == householdID) &&
			(personID == "" || w.PersonID == personID) {
			workouts = append(workouts, *w)
		}
	}
	sort.Slice(workouts, func(i, j int) bool { return workouts[i].LoggedAt.Before(workouts[j].LoggedAt) })
	return workouts, nil
}

// GetWorkout implements Store.
func (s *MemoryStore) GetWorkout(ctx context.Context, id string) (*Workout, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.workouts[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *w
	return &copied, nil
}

// CreateWorkout implements Store.
func (s *MemoryStore) CreateWorkout(ctx context.Context, w *Workout) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.workouts[w.ID]; exists {
		return ErrDuplicate
	}
	copied := *w
	s.workouts[w.ID] = &copied
	return nil
}

// DeleteWorkout implements Store.
func (s *MemoryStore) DeleteWorkout(ctx context.Context, id string) error {
	return ErrDemoMode
}

// ListMeals implements Store.
func (s *MemoryStore) ListMeals(ctx context.Context, householdID, personID string) ([]Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meals := make([]Meal, 0)
	for _, m := range s.meals {
		if (householdID == "" || m.HouseholdID == householdID) &&
			(personID == "" || m.PersonID == personID) {
			meals = append(meals, *m)
		}
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].LoggedAt.Before(meals[j].LoggedAt) })
	return meals, nil
}

// GetMeal implements Store.
func (s *MemoryStore) GetMeal(ctx context.Context, id string) (*Meal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meals[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *m
	return &copied, nil
}

// CreateMeal implements Store.
func (s *MemoryStore) CreateMeal(ctx context.Context, m *Meal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.meals[m.ID]; exists {
		return ErrDuplicate
	}
	copied := *m
	s.meals[m.ID] = &copied
	return nil
}

// DeleteMeal implements Store.
func (s *MemoryStore) DeleteMeal(ctx context.Context, id string) error {
	return ErrDemoMode
}

// ListWeights implements Store.
func (s *MemoryStore) ListWeights(ctx context.Context, householdID, personID string) ([]WeightEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	weights := make([]WeightEntry, 0)
	for _, w := range s.weights {
		if (householdID == "" || w.HouseholdID == householdID) &&
			(personID == "" || w.PersonID == personID) {
			weights = append(weights, *w)
		}
	}
	sort.Slice(weights, func(i, j int) bool { return weights[i].LoggedAt.Before(weights[j].LoggedAt) })
	return weights, nil
}

// GetWeight implements Store.
func (s *MemoryStore) GetWeight(ctx context.Context, id string) (*WeightEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.weights[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *w
	return &copied, nil
}

// CreateWeight implements Store.
func (s *MemoryStore) CreateWeight(ctx context.Context, w *WeightEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.weights[w.ID]; exists {
		return ErrDuplicate
	}
	copied := *w
	s.weights[w.ID] = &copied
	return nil
}

// DeleteWeight implements Store.
func (s *MemoryStore) DeleteWeight(ctx context.Context, id string) error {
	return ErrDemoMode
}

// ListRecipes implements Store.
func (s *MemoryStore) ListRecipes(ctx context.Context, householdID string) ([]Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipes := make([]Recipe, 0, len(s.recipes))
	for _, r := range s.recipes {
		if householdID == "" || r.HouseholdID == householdID {
			recipes = append(recipes, *r)
		}
	}
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
	return recipes, nil
}

// GetRecipe implements Store.
func (s *MemoryStore) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *r
	return &copied, nil
}

// CreateRecipe implements Store.
func (s *MemoryStore) CreateRecipe(ctx context.Context, r *Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recipes[r.ID]; exists {
		return ErrDuplicate
	}
	copied := *r
	s.recipes[r.ID] = &copied
	return nil
}

// DeleteRecipe implements Store.
func (s *MemoryStore) DeleteRecipe(ctx context.Context, id string) error {
	return ErrDemoMode
}

// Seed implements Store: resets the store to the demo fixtures.
func (s *MemoryStore) Seed(ctx context.Context) (*SeedReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &SeedReport{Tables: make(map[string]TableResult)}

	s.persons = make(map[string]*Person)
	for _, p := range fixturePersons() {
		copied := p
		s.persons[p.ID] = &copied
	}
	report.Tables["persons"] = TableResult{Inserted: len(s.persons)}

	s.pantry = make(map[string]*PantryItem)
	for _, item := range fixturePantry() {
		copied := item
		s.pantry[item.ID] = &copied
	}
	report.Tables["pantry"] = TableResult{Inserted: len(s.pantry)}

	s.workouts = make(map[string]*Workout)
	for _, w := range fixtureWorkouts() {
		copied := w
		s.workouts[w.ID] = &copied
	}
	report.Tables["workouts"] = TableResult{Inserted: len(s.workouts)}

	s.meals = make(map[string]*Meal)
	for _, m := range fixtureMeals() {
		copied := m
		s.meals[m.ID] = &copied
	}
	report.Tables["meals"] = TableResult{Inserted: len(s.meals)}

	s.weights = make(map[string]*WeightEntry)
	for _, w := range fixtureWeights() {
		copied := w
		s.weights[w.ID] = &copied
	}
	report.Tables["weights"] = TableResult{Inserted: len(s.weights)}

	s.recipes = make(map[string]*Recipe)
	for _, r := range fixtureRecipes() {
		copied := r
		s.recipes[r.ID] = &copied
	}
	report.Tables["recipes"] = TableResult{Inserted: len(s.recipes)}

	return report, nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
