package middleware

import "github.com/gin-gonic/gin"

// actorIDKey is the key used to store the authenticated agent's ID in the
// request context. Using a custom type prevents collisions.
const actorIDKey = contextKey("actorID")

// GetActorIDFromContext retrieves the authenticated agent ID from the Gin
// context. It returns the agent ID and a boolean indicating if it was found.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	actorVal := c.Request.Context().Value(actorIDKey)
	if actorVal == nil {
		return "", false
	}

	actorID, ok := actorVal.(string)
	if !ok {
		// Should not happen if the auth middleware sets it correctly
		return "", false
	}

	return actorID, true
}
