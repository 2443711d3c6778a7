package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/referee"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

const maxJSONBytes = 1_048_576

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxJSONBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxJSONBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// respond writes data and logs a failed write. Most handlers end with it.
func respond(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if err := writeJSON(w, status, data, nil); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write response", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write error response", slog.Int("status", status), slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	errorResponse(w, r, http.StatusUnprocessableEntity, errors)
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, message string) {
	if message == "" {
		message = "the requested resource could not be found"
	}
	errorResponse(w, r, http.StatusNotFound, message)
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusConflict, message)
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

func validationFields(err error) map[string]string {
	fields := map[string]string{}
	var many services.ValidationErrors
	var one *services.ValidationError
	switch {
	case errors.As(err, &many):
		for _, v := range many {
			fields[v.Field] = v.Message
		}
	case errors.As(err, &one):
		fields[one.Field] = one.Message
	default:
		fields["request"] = err.Error()
	}
	return fields
}

// mapServiceErrorToHTTP turns service and session errors into responses.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		failedValidationResponse(w, r, validationFields(err))

	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrFixtureNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrPlayerNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, referee.ErrSessionNotFound),
		errors.Is(err, referee.ErrGoalNotFound),
		errors.Is(err, referee.ErrPlayerNotTracked):
		notFoundResponse(w, r, err.Error())

	case errors.Is(err, services.ErrDuplicateEvent),
		errors.Is(err, services.ErrTeamNameConflict),
		errors.Is(err, services.ErrMemberConflict),
		errors.Is(err, services.ErrFixtureNotCompleted),
		errors.Is(err, services.ErrFixturePostponed),
		errors.Is(err, referee.ErrPlayerTracked),
		errors.Is(err, referee.ErrNoGoalToRemove),
		errors.Is(err, referee.ErrGoalRecorded):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrTeamResolution),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrEventNotEditable),
		errors.Is(err, referee.ErrInvalidSide),
		errors.Is(err, referee.ErrInvalidCard),
		errors.Is(err, referee.ErrEmptyPlayerName):
		badRequestResponse(w, r, err)

	case errors.Is(err, services.ErrLogoStorageMissing):
		errorResponse(w, r, http.StatusServiceUnavailable, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

func getIDFromURL(r *http.Request, paramName string) (int, error) {
	idStr := chi.URLParam(r, paramName)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s in URL path", paramName)
	}

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", paramName, idStr)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", paramName, id)
	}
	return id, nil
}

func getEventIDFromURL(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "eventID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid eventID: %q", idStr)
	}
	return id, nil
}

func toInt(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// editorFrom names the caller for modification logs. Unauthenticated calls only reach this
// in tests and fall back to "anonymous".
func editorFrom(r *http.Request) string {
	editor, err := middleware.GetEditorFromContext(r.Context())
	if err != nil {
		return "anonymous"
	}
	return editor
}
