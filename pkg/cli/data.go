package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mchmarny/fraudcheck/pkg/record"
)

type schemaResponse struct {
	Required   []string            `json:"required" yaml:"required"`
	Features   []string            `json:"features" yaml:"features"`
	Categories map[string][]string `json:"categories" yaml:"categories"`
}

type checkResponse struct {
	Prediction string `json:"prediction" yaml:"prediction"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func schemaAPIHandler(cfg *serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, &schemaResponse{
			Required:   record.RequiredColumns(),
			Features:   cfg.service.Features(),
			Categories: cfg.service.Categories(),
		})
	}
}

// checkAPIHandler classifies one applicant posted as a flat JSON object.
// Numbers may be sent as JSON numbers or strings.
func checkAPIHandler(cfg *serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in map[string]any
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, bytesPerMB)).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		values, err := stringValues(in)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rec, err := record.FromMap(values)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		v, err := cfg.service.Single(r.Context(), rec)
		if err != nil {
			slog.Error("api check failed", "error", err)
			writeError(w, statusFor(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, &checkResponse{Prediction: string(v)})
	}
}

// batchAPIHandler classifies a CSV posted as the raw body and returns the
// table with its Prediction column.
func batchAPIHandler(cfg *serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, int64(cfg.maxUploadMB)*bytesPerMB)

		t, err := record.ReadTable(body)
		if err != nil {
			err = fmt.Errorf("%w: %w", record.ErrInvalidValue, err)
			writeError(w, statusFor(err), err.Error())
			return
		}

		out, err := cfg.service.Batch(r.Context(), t)
		if err != nil {
			slog.Error("api batch failed", "error", err)
			writeError(w, statusFor(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func stringValues(in map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(in))
	for k, v := range in {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			out[k] = "0"
			if val {
				out[k] = "1"
			}
		case nil:
			out[k] = ""
		default:
			return nil, fmt.Errorf("%w: %s has unsupported type %T", record.ErrInvalidValue, k, v)
		}
	}
	return out, nil
}
