// Command sample demonstrates the facet framework with a small task
// tracker exposed on two wire surfaces at once.
//
// Run:
//
//	go run ./cmd/sample
//
// Print the surface description:
//
//	go run ./cmd/sample -describe
//
// Then explore:
//
//	GET  http://localhost:8080/describe.json           — surface description
//	GET  http://localhost:8080/v1/tasks                — list tasks
//	POST http://localhost:8080/v1/tasks                — create task
//	GET  http://localhost:8080/v1/tasks/{id}           — get task
//	PUT  http://localhost:8080/v1/tasks/{id}           — replace task
//	PATCH http://localhost:8080/v1/tasks/{id}          — update task
//	DELETE http://localhost:8080/v1/tasks/{id}         — delete task
//	POST http://localhost:8080/v1/tasks/{id}/complete  — complete task
//	POST http://localhost:8080/rpc                     — RPC surface
//	GET  http://localhost:8080/metrics                 — Prometheus metrics
//
// The same registry backs both surfaces; try
//
//	curl -X POST localhost:8080/rpc -d '{"call":"tasks.get","params":{"id":"1"}}'
//
// and ask for YAML with `-H "Accept: application/yaml"` on any endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/facet-go/facet"
)

func main() {
	describeFlag := flag.Bool("describe", false, "Print the surface description to stdout and exit")
	flag.Parse()

	rest, _ := newAdapters()

	if *describeFlag {
		if err := rest.WriteDescription(os.Stdout); err != nil {
			slog.Error("description generation failed", "err", err)
			os.Exit(1)
		}
		return
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))

	cfg, err := facet.ConfigFromEnv()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting server", "addr", cfg.Addr, "describe", "http://localhost"+cfg.Addr+"/describe.json")

	if err := rest.Serve(ctx, cfg); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "err", err)
	}

	slog.Info("server stopped")
}

func newAdapters() (*facet.REST, *facet.RPC) {
	metrics := facet.NewMetrics(prometheus.DefaultRegisterer)

	reg := facet.New(
		facet.WithTitle("Task API"),
		facet.WithVersion("1.0.0"),
		facet.WithMetrics(metrics),
	)

	tasks := reg.Resource("tasks",
		facet.WithResourceDescription("Tasks in the tracker."),
		facet.WithResourceTags("tasks"),
	)

	facet.List[ListTasksIn, ListTasksOut](tasks, listTasks,
		facet.WithSummary("List tasks"),
		facet.WithDescription("Returns all tasks, optionally filtered by state."),
	)
	facet.Create[CreateTaskIn, Task](tasks, createTask,
		facet.WithSummary("Create task"),
	)
	facet.Get[TaskByIDIn, Task](tasks, getTask,
		facet.WithSummary("Get task by ID"),
		facet.WithErrors(http.StatusNotFound),
	)
	facet.Replace[ReplaceTaskIn, Task](tasks, replaceTask,
		facet.WithSummary("Replace task"),
		facet.WithErrors(http.StatusNotFound),
	)
	facet.Update[UpdateTaskIn, Task](tasks, updateTask,
		facet.WithSummary("Update task"),
		facet.WithErrors(http.StatusNotFound),
	)
	facet.Delete[TaskByIDIn, facet.Void](tasks, deleteTask,
		facet.WithSummary("Delete task"),
		facet.WithErrors(http.StatusNotFound),
	)
	facet.Action[TaskByIDIn, Task](tasks, "complete", completeTask,
		facet.WithSummary("Mark a task as done"),
		facet.WithErrors(http.StatusNotFound, http.StatusConflict),
	)

	rest := facet.NewREST(reg, facet.WithPrefix("/v1"), facet.WithMaxBody(1<<20))
	rpc := facet.NewRPC(reg)

	rest.Use(facet.Recovery())
	rest.Use(facet.RequestID())
	rest.Use(facet.Logger(slog.Default()))

	rest.ServeDescription("/describe.json")
	rest.ServeDescriptionYAML("/describe.yaml")
	rest.Handle("POST /rpc", rpc)
	rest.Handle("GET /metrics", promhttp.Handler())

	return rest, rpc
}

// ---------------------------------------------------------------------------
// In-memory store
// ---------------------------------------------------------------------------

var store = &taskStore{
	tasks: map[string]*Task{
		"1": {ID: "1", Title: "Write the README", State: "open", CreatedAt: time.Now()},
		"2": {ID: "2", Title: "Cut a release", State: "open", CreatedAt: time.Now()},
	},
	nextID: 3,
}

type taskStore struct {
	mu     sync.RWMutex
	tasks  map[string]*Task
	nextID int
}

func (s *taskStore) list(state string) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if state != "" && t.State != state {
			continue
		}
		out = append(out, *t)
	}
	return out
}

func (s *taskStore) get(id string) (*Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	cp := *t
	return &cp, true
}

func (s *taskStore) create(title, notes string) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &Task{
		ID:        strconv.Itoa(s.nextID),
		Title:     title,
		Notes:     notes,
		State:     "open",
		CreatedAt: time.Now(),
	}
	s.nextID++
	s.tasks[t.ID] = t
	cp := *t
	return &cp
}

func (s *taskStore) replace(id, title, notes, state string) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	t.Title = title
	t.Notes = notes
	t.State = state
	cp := *t
	return &cp, true
}

func (s *taskStore) update(id, title, notes string) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, false
	}
	if title != "" {
		t.Title = title
	}
	if notes != "" {
		t.Notes = notes
	}
	cp := *t
	return &cp, true
}

func (s *taskStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

func (s *taskStore) complete(id string) (*Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, false, nil
	}
	if t.State == "done" {
		return nil, true, fmt.Errorf("task %s already done", id)
	}
	t.State = "done"
	cp := *t
	return &cp, true, nil
}

// ---------------------------------------------------------------------------
// Domain and input/output types
// ---------------------------------------------------------------------------

// Task is the core domain entity.
type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Notes     string    `json:"notes,omitempty" yaml:"notes,omitempty"`
	State     string    `json:"state" yaml:"state"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

type ListTasksIn struct {
	State string `query:"state" doc:"Filter by state (open, done)" enum:"open,done"`
	Limit int    `query:"limit" doc:"Max results" default:"50" minimum:"1" maximum:"500"`
}

type ListTasksOut struct {
	Tasks []Task `json:"tasks" yaml:"tasks"`
	Total int    `json:"total" yaml:"total"`
}

type CreateTaskIn struct {
	Body struct {
		Title string `json:"title" required:"true" minLength:"1" maxLength:"140" doc:"Short task title"`
		Notes string `json:"notes" doc:"Free-form notes"`
	}
}

type TaskByIDIn struct {
	ID string `path:"id" doc:"Task ID"`
}

type ReplaceTaskIn struct {
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		Title string `json:"title" required:"true" minLength:"1" maxLength:"140" doc:"Short task title"`
		Notes string `json:"notes" doc:"Free-form notes"`
		State string `json:"state" required:"true" enum:"open,done" doc:"Task state"`
	}
}

type UpdateTaskIn struct {
	ID   string `path:"id" doc:"Task ID"`
	Body struct {
		Title string `json:"title" maxLength:"140" doc:"Short task title"`
		Notes string `json:"notes" doc:"Free-form notes"`
	}
}

// ---------------------------------------------------------------------------
// Operations
// ---------------------------------------------------------------------------

func listTasks(_ context.Context, in *ListTasksIn) (*ListTasksOut, error) {
	tasks := store.list(in.State)
	total := len(tasks)
	if in.Limit > 0 && in.Limit < len(tasks) {
		tasks = tasks[:in.Limit]
	}
	return &ListTasksOut{Tasks: tasks, Total: total}, nil
}

func createTask(_ context.Context, in *CreateTaskIn) (*Task, error) {
	return store.create(in.Body.Title, in.Body.Notes), nil
}

func getTask(_ context.Context, in *TaskByIDIn) (*Task, error) {
	t, ok := store.get(in.ID)
	if !ok {
		return nil, facet.Errorf(http.StatusNotFound, "task %s not found", in.ID)
	}
	return t, nil
}

func replaceTask(_ context.Context, in *ReplaceTaskIn) (*Task, error) {
	t, ok := store.replace(in.ID, in.Body.Title, in.Body.Notes, in.Body.State)
	if !ok {
		return nil, facet.Errorf(http.StatusNotFound, "task %s not found", in.ID)
	}
	return t, nil
}

func updateTask(_ context.Context, in *UpdateTaskIn) (*Task, error) {
	t, ok := store.update(in.ID, in.Body.Title, in.Body.Notes)
	if !ok {
		return nil, facet.Errorf(http.StatusNotFound, "task %s not found", in.ID)
	}
	return t, nil
}

func deleteTask(_ context.Context, in *TaskByIDIn) (*facet.Void, error) {
	if !store.delete(in.ID) {
		return nil, facet.Errorf(http.StatusNotFound, "task %s not found", in.ID)
	}
	return &facet.Void{}, nil
}

func completeTask(_ context.Context, in *TaskByIDIn) (*Task, error) {
	t, found, err := store.complete(in.ID)
	if !found {
		return nil, facet.Errorf(http.StatusNotFound, "task %s not found", in.ID)
	}
	if err != nil {
		return nil, facet.Error(http.StatusConflict, err.Error())
	}
	return t, nil
}
