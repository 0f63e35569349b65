package facet_test

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/facet-go/facet"
)

// The notes fixture: a small resource exercising every operation kind.

type Note struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Archived bool   `json:"archived" yaml:"archived"`
}

type noteStore struct {
	mu    sync.Mutex
	notes map[string]*Note
	next  int
}

func newNoteStore() *noteStore {
	return &noteStore{
		notes: map[string]*Note{
			"1": {ID: "1", Title: "first"},
			"2": {ID: "2", Title: "second"},
		},
		next: 3,
	}
}

type ListNotesIn struct {
	Q     string `query:"q" doc:"Title substring filter"`
	Limit int    `query:"limit" default:"10" minimum:"1" doc:"Max results"`
}

type ListNotesOut struct {
	Notes []Note `json:"notes" yaml:"notes"`
	Total int    `json:"total" yaml:"total"`
}

type NoteByIDIn struct {
	ID string `path:"id" doc:"Note ID"`
}

type CreateNoteIn struct {
	Body struct {
		Title string `json:"title" required:"true" maxLength:"20" doc:"Note title"`
	}
}

type ReplaceNoteIn struct {
	ID   string `path:"id"`
	Body struct {
		Title string `json:"title" required:"true"`
	}
}

type UpdateNoteIn struct {
	ID   string `path:"id"`
	Body struct {
		Title string `json:"title"`
	}
}

type PurgeOut struct {
	Removed int `json:"removed" yaml:"removed"`
}

// newNotesRegistry builds a registry with a fresh store behind it.
func newNotesRegistry(opts ...facet.RegistryOption) (*facet.Registry, *noteStore) {
	store := newNoteStore()

	base := []facet.RegistryOption{
		facet.WithTitle("Notes API"),
		facet.WithVersion("0.1.0"),
	}
	reg := facet.New(append(base, opts...)...)

	notes := reg.Resource("notes",
		facet.WithResourceDescription("Short notes."),
		facet.WithResourceTags("notes"),
	)

	facet.List[ListNotesIn, ListNotesOut](notes, func(_ context.Context, in *ListNotesIn) (*ListNotesOut, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		out := &ListNotesOut{}
		for _, n := range store.notes {
			out.Notes = append(out.Notes, *n)
		}
		out.Total = len(out.Notes)
		if in.Limit > 0 && in.Limit < len(out.Notes) {
			out.Notes = out.Notes[:in.Limit]
		}
		return out, nil
	}, facet.WithSummary("List notes"))

	facet.Get[NoteByIDIn, Note](notes, func(_ context.Context, in *NoteByIDIn) (*Note, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		n, ok := store.notes[in.ID]
		if !ok {
			return nil, facet.Errorf(http.StatusNotFound, "note %s not found", in.ID)
		}
		cp := *n
		return &cp, nil
	})

	facet.Create[CreateNoteIn, Note](notes, func(_ context.Context, in *CreateNoteIn) (*Note, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		n := &Note{ID: strconv.Itoa(store.next), Title: in.Body.Title}
		store.next++
		store.notes[n.ID] = n
		cp := *n
		return &cp, nil
	}, facet.WithSummary("Create note"))

	facet.Replace[ReplaceNoteIn, Note](notes, func(_ context.Context, in *ReplaceNoteIn) (*Note, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		n, ok := store.notes[in.ID]
		if !ok {
			return nil, facet.Errorf(http.StatusNotFound, "note %s not found", in.ID)
		}
		n.Title = in.Body.Title
		cp := *n
		return &cp, nil
	})

	facet.Update[UpdateNoteIn, Note](notes, func(_ context.Context, in *UpdateNoteIn) (*Note, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		n, ok := store.notes[in.ID]
		if !ok {
			return nil, facet.Errorf(http.StatusNotFound, "note %s not found", in.ID)
		}
		if in.Body.Title != "" {
			n.Title = in.Body.Title
		}
		cp := *n
		return &cp, nil
	})

	facet.Delete[NoteByIDIn, facet.Void](notes, func(_ context.Context, in *NoteByIDIn) (*facet.Void, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		if _, ok := store.notes[in.ID]; !ok {
			return nil, facet.Errorf(http.StatusNotFound, "note %s not found", in.ID)
		}
		delete(store.notes, in.ID)
		return &facet.Void{}, nil
	})

	facet.Action[NoteByIDIn, Note](notes, "archive", func(_ context.Context, in *NoteByIDIn) (*Note, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		n, ok := store.notes[in.ID]
		if !ok {
			return nil, facet.Errorf(http.StatusNotFound, "note %s not found", in.ID)
		}
		n.Archived = true
		cp := *n
		return &cp, nil
	})

	facet.Action[facet.Void, PurgeOut](notes, "purge", func(_ context.Context, _ *facet.Void) (*PurgeOut, error) {
		store.mu.Lock()
		defer store.mu.Unlock()
		removed := 0
		for id, n := range store.notes {
			if n.Archived {
				delete(store.notes, id)
				removed++
			}
		}
		return &PurgeOut{Removed: removed}, nil
	}, facet.WithCollection())

	return reg, store
}
