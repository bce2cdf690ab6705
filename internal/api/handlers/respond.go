package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"

	"github.com/AbdurRehmanbaig1/paktravel/internal/services"
)

// IAsynqClient is the slice of asynq.Client the handlers need, kept as an
// interface so tests can stub enqueueing.
type IAsynqClient interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// respondError maps the service error taxonomy onto HTTP statuses. Validation
// and conflict errors surface their own message; anything unrecognized is a
// store failure, logged here and reduced to the fixed fallback message so
// internal detail never reaches the caller.
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"error": reason(err)})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": reason(err)})
	default:
		log.Printf("%s: %v", fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// reason strips the sentinel prefix so the API message reads cleanly.
func reason(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{services.ErrValidation, services.ErrConflict, services.ErrNotFound} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}

// optionalNumber interprets a loosely typed JSON field as a number. Clients
// historically sent numerics either as numbers or as strings, and falsy values
// (absent, empty string, zero) all mean "not supplied". The second return is
// false when the value is present but not numeric.
func optionalNumber(v any) (*float64, bool) {
	switch t := v.(type) {
	case nil:
		return nil, true
	case float64:
		if t == 0 {
			return nil, true
		}
		return &t, true
	case string:
		if t == "" {
			return nil, true
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil, false
		}
		if f == 0 {
			return nil, true
		}
		return &f, true
	default:
		return nil, false
	}
}
