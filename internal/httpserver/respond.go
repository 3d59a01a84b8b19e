package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"flowershop/internal/domain"
	authsvc "flowershop/internal/service/auth"
	ordersvc "flowershop/internal/service/order"

	"github.com/gin-gonic/gin"
)

func abortWithMessage(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// writeError maps service errors to status codes. subject names the resource in 404 messages.
// Unknown errors are logged and hidden.
func writeError(c *gin.Context, logger *log.Logger, subject string, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	switch status {
	case http.StatusNotFound:
		msg = subject + " not found"
	case http.StatusForbidden:
		msg = "Not authorized"
	case http.StatusUnauthorized:
		msg = "Invalid email or password"
	case http.StatusInternalServerError:
		logger.Printf("api: %s %s error=%v", c.Request.Method, c.FullPath(), err)
		msg = "Internal server error"
	}
	abortWithMessage(c, status, msg)
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ordersvc.ErrInvalidInput), errors.Is(err, ordersvc.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, authsvc.ErrInvalidCredentials), errors.Is(err, authsvc.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// flexFloat accepts a JSON number, a numeric string or null. NaN and infinities are rejected.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid number %s", string(b))
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON number, a numeric string or null. Fractions are truncated.
type flexInt int

func (n *flexInt) UnmarshalJSON(b []byte) error {
	var f flexFloat
	if err := f.UnmarshalJSON(b); err != nil {
		return err
	}
	*n = flexInt(int(f))
	return nil
}

// flexRef accepts either an id string or a populated object carrying "_id" or "id".
type flexRef string

func (r *flexRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			MongoID string `json:"_id"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		if obj.MongoID != "" {
			*r = flexRef(obj.MongoID)
		} else {
			*r = flexRef(obj.ID)
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("invalid reference %s", string(b))
	}
	*r = flexRef(s)
	return nil
}
