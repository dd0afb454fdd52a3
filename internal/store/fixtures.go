package store

import "time"

// Demo fixture identifiers are stable so tests and the UI can reference them.
const (
	DemoHouseholdID = "household-demo"
	DemoPersonID    = "person-1"
)

func fixtureTime() time.Time {
	return time.Date(2026, time.January, 15, 8, 0, 0, 0, time.UTC)
}

// fixturePersons returns the demo persons.
func fixturePersons() []Person {
	at := fixtureTime()
	return []Person{
		{ID: DemoPersonID, HouseholdID: DemoHouseholdID, Name: "Alex", BirthYear: 1990, CreatedAt: at},
		{ID: "person-2", HouseholdID: DemoHouseholdID, Name: "Sam", BirthYear: 1988, CreatedAt: at},
	}
}

// fixturePantry returns the demo pantry items.
func fixturePantry() []PantryItem {
	at := fixtureTime()
	return []PantryItem{
		{ID: "pantry-1", HouseholdID: DemoHouseholdID, Name: "Rolled oats", Quantity: 1.5, Unit: "kg", UpdatedAt: at},
		{ID: "pantry-2", HouseholdID: DemoHouseholdID, Name: "Peanut butter", Quantity: 1, Unit: "jar", Barcode: "0037600109932", UpdatedAt: at},
		{ID: "pantry-3", HouseholdID: DemoHouseholdID, Name: "Eggs", Quantity: 12, Unit: "pcs", UpdatedAt: at},
	}
}

// fixtureWorkouts returns the demo workouts.
func fixtureWorkouts() []Workout {
	at := fixtureTime()
	return []Workout{
		{ID: "workout-1", PersonID: DemoPersonID, HouseholdID: DemoHouseholdID, Type: "run", DurationMin: 30, Calories: 320, LoggedAt: at},
		{ID: "workout-2", PersonID: DemoPersonID, HouseholdID: DemoHouseholdID, Type: "strength", DurationMin: 45, Calories: 280, LoggedAt: at.Add(24 * time.Hour)},
	}
}

// fixtureMeals returns the demo meals.
func fixtureMeals() []Meal {
	at := fixtureTime()
	return []Meal{
		{ID: "meal-1", PersonID: DemoPersonID, HouseholdID: DemoHouseholdID, Name: "Oatmeal with banana", Calories: 380, ProteinG: 12, CarbsG: 68, FatG: 7, LoggedAt: at},
		{ID: "meal-2", PersonID: DemoPersonID, HouseholdID: DemoHouseholdID, Name: "Chicken salad", Calories: 450, ProteinG: 38, CarbsG: 18, FatG: 24, LoggedAt: at.Add(5 * time.Hour)},
	}
}

// fixtureWeights returns the demo weight entries.
func fixtureWeights() []WeightEntry {
	at := fixtureTime()
	return []WeightEntry{
		{ID: "weight-1", PersonID: DemoPersonID, HouseholdID: DemoHouseholdID, WeightKg: 78.4, LoggedAt: at},
		{ID: "weight-2", PersonID: DemoPersonID, HouseholdID: DemoHouseholdID, WeightKg: 78.1, LoggedAt: at.Add(7 * 24 * time.Hour)},
	}
}

// fixtureRecipes returns the demo recipes.
func fixtureRecipes() []Recipe {
	at := fixtureTime()
	return []Recipe{
		{
			ID: "recipe-1", HouseholdID: DemoHouseholdID, Title: "Overnight oats",
			Ingredients:  []string{"oats", "milk", "chia seeds", "honey"},
			Instructions: "Combine in a jar, refrigerate overnight.",
			Calories:     420, CreatedAt: at,
		},
		{
			ID: "recipe-2", HouseholdID: DemoHouseholdID, Title: "Grilled chicken bowl",
			Ingredients:  []string{"chicken breast", "rice", "broccoli", "olive oil"},
			Instructions: "Grill chicken, steam broccoli, serve over rice.",
			Calories:     560, CreatedAt: at,
		},
	}
}
