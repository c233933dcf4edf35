package handler

import "github.com/gin-gonic/gin"

// Action is the closed set of request selectors the API understands.
type Action string

const (
	ActionGetMistakes   Action = "get_mistakes"
	ActionAddMistake    Action = "add_mistake"
	ActionUpdateMistake Action = "update_mistake"
	ActionDeleteMistake Action = "delete_mistake"
	ActionGetStats      Action = "get_stats"
	ActionTestAuth      Action = "test_auth"
)

// Protected reports whether the action requires the bearer token.
// test_auth always requires one: it exists so a client can verify a token
// before committing to storing it.
func (a Action) Protected() bool {
	switch a {
	case ActionAddMistake, ActionUpdateMistake, ActionDeleteMistake, ActionTestAuth:
		return true
	default:
		return false
	}
}

// ActionFrom reads the action selector from the query string, falling back
// to the posted form.
func ActionFrom(c *gin.Context) Action {
	if v := c.Query("action"); v != "" {
		return Action(v)
	}
	return Action(c.PostForm("action"))
}

// Protected is the predicate form used by the token gate middleware.
func Protected(c *gin.Context) bool {
	return ActionFrom(c).Protected()
}
