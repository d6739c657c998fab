package service

// Change feed topics.
const (
	TopicIngredients = "ingredients"
	TopicRecipes     = "recipes"
)

// Change event types.
const (
	EventIngredientCreated = "ingredient.created"
	EventIngredientUpdated = "ingredient.updated"
	EventIngredientDeleted = "ingredient.deleted"
	EventRecipeCreated     = "recipe.created"
	EventRecipeUpdated     = "recipe.updated"
	EventRecipeDeleted     = "recipe.deleted"
)

// Publisher receives an event after every successful mutation. Implementations must not block.
type Publisher interface {
	Publish(topic, eventType string, payload interface{})
}

// DeletedPayload is the payload of a *.deleted event.
type DeletedPayload struct {
	ID string `json:"id"`
}

func publish(p Publisher, topic, eventType string, payload interface{}) {
	if p == nil {
		return
	}
	p.Publish(topic, eventType, payload)
}
