package rest

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schemastudio/backend/pkg/errors"
)

// RespondAppError sends a standardised JSON error response using pkg/errors
func RespondAppError(c *gin.Context, err error) {
	code := errors.GetHTTPStatus(err)
	errorCode := errors.GetErrorCode(err)
	message := err.Error()

	if code >= 500 {
		log.Printf("❌ ERROR [%d] %s %s: %s", code, c.Request.Method, c.Request.URL.Path, message)
	}

	payload := gin.H{
		"error":   message,
		"message": message,
		"code":    errorCode,
		"data":    nil,
	}
	if ms, ok := err.(*errors.MetaSchemaError); ok {
		payload["findings"] = ms.Findings
	}
	c.JSON(code, payload)
}

// BindJSON binds JSON and returns true if successful. If failed, it sends bad request error.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondAppError(c, errors.NewValidationError("body", err.Error()))
		return false
	}
	return true
}

// HandleGetEnvelope executes a read action and returns the result wrapped in a JSON key
// Response: { [key]: result }
func HandleGetEnvelope(c *gin.Context, key string, action func() (interface{}, error)) {
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{key: result})
}

// HandleCreateEnvelope binds the body, runs the action and returns 201 with
// { message: successMsg, [key]: result } (key omitted if empty).
func HandleCreateEnvelope(c *gin.Context, key string, successMsg string, obj interface{}, action func() (interface{}, error)) {
	if !BindJSON(c, obj) {
		return
	}
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	response := gin.H{"message": successMsg}
	if key != "" {
		response[key] = result
	}
	c.JSON(http.StatusCreated, response)
}

// HandleUpdateEnvelope binds the body, runs the action and returns 200 with
// { message: successMsg, [key]: result } (key omitted if empty).
func HandleUpdateEnvelope(c *gin.Context, key string, successMsg string, obj interface{}, action func() (interface{}, error)) {
	if !BindJSON(c, obj) {
		return
	}
	result, err := action()
	if err != nil {
		RespondAppError(c, err)
		return
	}
	response := gin.H{"message": successMsg}
	if key != "" {
		response[key] = result
	}
	c.JSON(http.StatusOK, response)
}

// HandleDeleteEnvelope executes a delete action and returns a success message
// Response: { message: successMsg }
func HandleDeleteEnvelope(c *gin.Context, successMsg string, action func() error) {
	if err := action(); err != nil {
		RespondAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": successMsg})
}
