package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/contact-scout/internal/model"
	"github.com/sells-group/contact-scout/internal/store"
	"github.com/sells-group/contact-scout/internal/task"
)

// newRouter builds the HTTP API around a task manager.
func newRouter(m *task.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/tasks", func(w http.ResponseWriter, req *http.Request) {
		var body model.SubmitRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		t, err := m.Submit(req.Context(), body)
		if errors.Is(err, task.ErrEmptyEntityName) {
			writeError(w, http.StatusBadRequest, "entity_name is required")
			return
		}
		if err != nil {
			zap.L().Error("task submission failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create task")
			return
		}
		// The record starts PENDING; the caller-facing acknowledgment
		// reports IN_PROGRESS since execution is already scheduled.
		writeJSON(w, http.StatusAccepted, map[string]string{
			"task_id": t.ID,
			"status":  string(model.TaskStatusInProgress),
		})
	})

	r.Get("/tasks/{taskID}", func(w http.ResponseWriter, req *http.Request) {
		t, err := m.Get(req.Context(), chi.URLParam(req, "taskID"))
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "task not found")
			return
		}
		if err != nil {
			zap.L().Error("task lookup failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to load task")
			return
		}
		writeJSON(w, http.StatusOK, t)
	})

	r.Get("/tasks", func(w http.ResponseWriter, req *http.Request) {
		filter := store.TaskFilter{
			Status: model.TaskStatus(req.URL.Query().Get("status")),
			Limit:  queryInt(req, "limit"),
			Offset: queryInt(req, "offset"),
		}
		tasks, err := m.List(req.Context(), filter)
		if err != nil {
			zap.L().Error("task list failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to list tasks")
			return
		}
		if tasks == nil {
			tasks = []model.Task{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
	})

	// Local receiver for manual end-to-end checks of webhook delivery.
	r.Post("/webhook-mock", func(w http.ResponseWriter, req *http.Request) {
		var payload model.WebhookPayload
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		zap.L().Info("webhook-mock received",
			zap.String("status", string(payload.Status)),
			zap.String("message", payload.Message))
		writeJSON(w, http.StatusOK, map[string]string{"status": "received"})
	})

	return r
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func queryInt(req *http.Request, key string) int {
	n, err := strconv.Atoi(req.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
