package api

import (
	"errors"
	"log/slog"
	"net/http"

	errorvalues "github.com/limbo/habitgarden/internal/error_values"
	"github.com/limbo/habitgarden/pkg/httputil"
)

type errorStatus struct {
	err     error
	code    int
	message string
	// Validation failures carry field details worth returning to the client
	details bool
}

var errorStatuses = []errorStatus{
	{errorvalues.ErrValidation, http.StatusBadRequest, "invalid request", true},
	{errorvalues.ErrInvalidSchedule, http.StatusBadRequest, "invalid schedule", true},
	{errorvalues.ErrInvalidDate, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", false},
	{errorvalues.ErrCheckDateNotAllowed, http.StatusUnprocessableEntity, "can't complete a habit in the future", false},
	{errorvalues.ErrNotDueDate, http.StatusUnprocessableEntity, "habit isn't scheduled on this date", false},
	{errorvalues.ErrHabitNotFound, http.StatusNotFound, "habit doesn't exist", false},
	{errorvalues.ErrWrongOwner, http.StatusNotFound, "habit doesn't exist", false},
	{errorvalues.ErrUserNotFound, http.StatusNotFound, "user doesn't exist", false},
	{errorvalues.ErrCheckNotFound, http.StatusNotFound, "habit isn't completed on this date", false},
	{errorvalues.ErrCategoryNotFound, http.StatusNotFound, "category doesn't exist", false},
	{errorvalues.ErrTokenNotFound, http.StatusNotFound, "push token isn't registered", false},
	{errorvalues.ErrUserExists, http.StatusConflict, "user with such name already exists", false},
	{errorvalues.ErrUserHasHabit, http.StatusConflict, "habit already exists", false},
	{errorvalues.ErrCheckExist, http.StatusConflict, "habit is already completed on this date", false},
	{errorvalues.ErrCategoryExists, http.StatusConflict, "category already exists", false},
	{errorvalues.ErrCategoryInUse, http.StatusConflict, "category is used by a habit", false},
	{errorvalues.ErrDefaultCategory, http.StatusForbidden, "default categories can't be deleted", false},
	{errorvalues.ErrWrongCredentials, http.StatusForbidden, "invalid username or password", false},
}

// writeServiceError answers with the status registered for err's sentinel.
// Unknown errors become 500 and are logged with their cause.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	for _, es := range errorStatuses {
		if !errors.Is(err, es.err) {
			continue
		}
		logger.Error(op+" error: "+es.message, slog.Int("code", es.code))
		var details error
		if es.details {
			details = err
		}
		httputil.WriteErrorResponse(w, es.code, es.message, details)
		return
	}
	logger.Error(op+" error: service error", slog.String("error", err.Error()))
	httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during "+op, nil)
}
