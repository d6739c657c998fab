package util

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Context keys set by middleware.
const (
	RequestIDKey = "request_id"
	SubjectKey   = "subject"
)

// GetRequestIDFromContext gets the request ID from the context, or "" when none was set.
func GetRequestIDFromContext(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// GetSubjectFromContext gets the token subject of an authorized write from the context.
func GetSubjectFromContext(c *gin.Context) (string, error) {
	val, ok := c.Get(SubjectKey)
	if !ok {
		return "", errors.New("no subject information")
	}

	subject, ok := val.(string)
	if !ok {
		return "", errors.New("subject information is of the wrong type")
	}

	return subject, nil
}
