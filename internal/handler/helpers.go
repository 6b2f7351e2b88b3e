package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dukerupert/coursehub/internal/response"
)

const maxBodyBytes = 1 << 20

// readJSON decodes a single JSON object from the request body into dst and
// returns a client-facing message on failure.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
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
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func parseIDParam(r *http.Request) (int64, error) {
	idStr := r.PathValue("id")
	return strconv.ParseInt(idStr, 10, 64)
}

// serverError logs err and answers with a generic 500 envelope.
func serverError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err, "method", r.Method, "uri", r.URL.RequestURI())
	response.Write(w, response.From(r.Context()).InternalError(""))
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	response.Write(w, response.From(r.Context()).Error(err.Error()))
}

func invalidID(w http.ResponseWriter, r *http.Request) {
	response.Write(w, response.From(r.Context()).Error("invalid id"))
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

// NotFound answers unmatched routes with the JSON envelope instead of the
// mux's plain-text reply.
func NotFound(w http.ResponseWriter, r *http.Request) {
	response.Write(w, response.From(r.Context()).NotFound("Route"))
}
