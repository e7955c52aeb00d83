package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/faizmokh/angkat/internal/workout"
)

// DefaultLimit caps GET /workouts when no limit parameter is given.
const DefaultLimit = 300

// Options tunes the router.
type Options struct {
	// Limit overrides DefaultLimit when positive.
	Limit int
}

// NewRouter wires the workout endpoints:
//
//	GET    /workout?date=   one workout
//	POST   /workout         add a workout
//	PUT    /workout?date=   replace a workout
//	DELETE /workout?date=   delete a workout
//	GET    /workouts?limit= newest workouts first
//
// Every response is wrapped as {"status": "ok"|"err", "result": ...}.
func NewRouter(store *Store, logger *log.Logger, opts Options) *gin.Engine {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders:    []string{"Accept", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/workout", getWorkout(store))
	r.POST("/workout", addWorkout(store))
	r.PUT("/workout", updateWorkout(store))
	r.DELETE("/workout", deleteWorkout(store))
	r.GET("/workouts", listWorkouts(store, opts.Limit))

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not a valid endpoint", nil)
	})

	return r
}

func getWorkout(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, ok := dateParam(c)
		if !ok {
			return
		}

		record, err := store.Get(c.Request.Context(), date)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				fail(c, http.StatusNotFound, "Can't find date in DB", err)
				return
			}
			fail(c, http.StatusInternalServerError, "Can't find date in DB", err)
			return
		}
		ok200(c, record)
	}
}

func addWorkout(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, ok := bindRecord(c)
		if !ok {
			return
		}

		if err := store.Add(c.Request.Context(), record); err != nil {
			switch {
			case errors.Is(err, ErrInvalidRecord):
				fail(c, http.StatusBadRequest, "Invalid workout", err)
			case errors.Is(err, ErrDuplicate):
				fail(c, http.StatusConflict, "Workout already exists for date", err)
			default:
				fail(c, http.StatusInternalServerError, "Failed to add workout to db", err)
			}
			return
		}
		ok200(c, "success")
	}
}

func updateWorkout(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, ok := dateParam(c)
		if !ok {
			return
		}
		record, ok := bindRecord(c)
		if !ok {
			return
		}

		if err := store.Update(c.Request.Context(), date, record); err != nil {
			switch {
			case errors.Is(err, ErrInvalidRecord):
				fail(c, http.StatusBadRequest, "Invalid workout", err)
			case errors.Is(err, ErrNotFound):
				fail(c, http.StatusNotFound, "Can't find date in DB", err)
			case errors.Is(err, ErrDuplicate):
				fail(c, http.StatusConflict, "Workout already exists for date", err)
			default:
				fail(c, http.StatusInternalServerError, "Failed to update db", err)
			}
			return
		}
		ok200(c, "success")
	}
}

func deleteWorkout(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		date, ok := dateParam(c)
		if !ok {
			return
		}

		if err := store.Delete(c.Request.Context(), date); err != nil {
			fail(c, http.StatusInternalServerError, "Failed to update db", err)
			return
		}
		ok200(c, "success")
	}
}

func listWorkouts(store *Store, defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := defaultLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				fail(c, http.StatusBadRequest, "Failed to parse limit param; not a positive integer", err)
				return
			}
			limit = parsed
		}

		records, err := store.List(c.Request.Context(), limit)
		if err != nil {
			fail(c, http.StatusInternalServerError, "Can't get workouts from DB", err)
			return
		}
		ok200(c, records)
	}
}

// dateParam reads and normalizes ?date=, answering 400 itself when it is unusable.
func dateParam(c *gin.Context) (string, bool) {
	raw, present := c.GetQuery("date")
	if !present {
		fail(c, http.StatusBadRequest, "Bad date request", nil)
		return "", false
	}
	date, err := workout.NormalizeTimestamp(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, "Bad date request", err)
		return "", false
	}
	return date, true
}

func bindRecord(c *gin.Context) (workout.Record, bool) {
	var record workout.Record
	if err := c.ShouldBindJSON(&record); err != nil {
		fail(c, http.StatusUnsupportedMediaType, "Failed to parse json request", err)
		return workout.Record{}, false
	}
	return record, true
}

func ok200(c *gin.Context, result any) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "result": result})
}

func fail(c *gin.Context, status int, message string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	c.AbortWithStatusJSON(status, gin.H{
		"status": "err",
		"result": gin.H{
			"error":       detail,
			"status_code": status,
			"message":     message,
		},
	})
}

func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		keyvals := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("request", keyvals...)
			return
		}
		logger.Info("request", keyvals...)
	}
}
