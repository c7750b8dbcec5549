package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextTrainerIDKey = "trainerID"
)

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// TrainerMiddleware parses the :trainerId path parameter once for every
// route of the trainer group and stores it in the context.
// Identity is taken from the path; there is no authentication layer here.
func TrainerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		trainerID, err := primitive.ObjectIDFromHex(c.Param("trainerId"))
		if err != nil || trainerID == primitive.NilObjectID {
			abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
			return
		}
		c.Set(ContextTrainerIDKey, trainerID)
		c.Next()
	}
}

// Helper function to get Trainer ID from context (used by handlers)
func getTrainerIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextTrainerIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("trainer ID not found in context")
	}
	id, ok := idRaw.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid trainer ID type in context")
	}
	return id, nil
}

// parseIDParam reads an ObjectID path parameter. On failure the request is
// aborted with 400 and ok is false.
func parseIDParam(c *gin.Context, name string) (id primitive.ObjectID, ok bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format.", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// trainerFromContext is the handler-side counterpart of TrainerMiddleware.
func trainerFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	trainerID, err := getTrainerIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Unable to identify trainer.")
		return primitive.NilObjectID, false
	}
	return trainerID, true
}
