package tsae

import "fmt"

// OperationKind is the explicit tag of the Operation union.
type OperationKind byte

const (
	KindAdd    OperationKind = 1
	KindRemove OperationKind = 2
)

func (k OperationKind) String() string {
	switch k {
	case KindAdd:
		return "add"
	case KindRemove:
		return "remove"
	default:
		return fmt.Sprintf("kind(%d)", byte(k))
	}
}

// Recipe is the replicated item. Timestamp is the stamp of the Add that
// created it; removals refer to it.
type Recipe struct {
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Author    string    `json:"author"`
	Timestamp Timestamp `json:"timestamp"`
}

// Operation is either an Add (Recipe set) or a Remove (Title and
// RecipeTimestamp set), stamped by Timestamp. Operations are immutable once
// built; share them by value.
type Operation struct {
	Kind      OperationKind `json:"kind"`
	Timestamp Timestamp     `json:"timestamp"`

	// Add
	Recipe *Recipe `json:"recipe,omitempty"`

	// Remove
	Title           string    `json:"title,omitempty"`
	RecipeTimestamp Timestamp `json:"recipe_timestamp"`
}

func NewAddOperation(recipe Recipe, ts Timestamp) Operation {
	return Operation{Kind: KindAdd, Timestamp: ts, Recipe: &recipe}
}

func NewRemoveOperation(title string, recipeTS, ts Timestamp) Operation {
	return Operation{Kind: KindRemove, Timestamp: ts, Title: title, RecipeTimestamp: recipeTS}
}

// RecipeTitle returns the title the operation targets, whatever its kind.
func (op Operation) RecipeTitle() string {
	if op.Kind == KindAdd && op.Recipe != nil {
		return op.Recipe.Title
	}
	return op.Title
}

func (op Operation) String() string {
	switch op.Kind {
	case KindAdd:
		if op.Recipe == nil {
			return fmt.Sprintf("add(%s, <nil>)", op.Timestamp)
		}
		return fmt.Sprintf("add(%s, %q)", op.Timestamp, op.Recipe.Title)
	case KindRemove:
		return fmt.Sprintf("remove(%s, %q@%s)", op.Timestamp, op.Title, op.RecipeTimestamp)
	default:
		return fmt.Sprintf("%s(%s)", op.Kind, op.Timestamp)
	}
}

// Equal compares two operations field by field, following the Recipe pointer.
func (op Operation) Equal(other Operation) bool {
	if op.Kind != other.Kind || op.Timestamp != other.Timestamp {
		return false
	}
	if op.Title != other.Title || op.RecipeTimestamp != other.RecipeTimestamp {
		return false
	}
	if op.Recipe == nil || other.Recipe == nil {
		return op.Recipe == other.Recipe
	}
	return *op.Recipe == *other.Recipe
}
