package movie

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svega/cinelist/api"
	"github.com/svega/cinelist/session"
)

// fakeBackend is a minimal in-memory movie API for round-trip tests.
type fakeBackend struct {
	movies   map[int64]Movie
	nextID   int64
	requests int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{movies: make(map[int64]Movie), nextID: 1}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /movies", func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		list := make([]Movie, 0, len(f.movies))
		for _, m := range f.movies {
			list = append(list, m)
		}
		writeData(w, http.StatusOK, map[string]any{"movies": list, "total": len(list)})
	})

	mux.HandleFunc("POST /movies", func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		var fields Fields
		json.NewDecoder(r.Body).Decode(&fields)

		now := time.Now().UTC()
		m := Movie{
			ID:        f.nextID,
			Title:     fields.Title,
			Year:      fields.Year,
			Director:  fields.Director,
			Genre:     fields.Genre,
			UserID:    1,
			CreatedAt: now,
			UpdatedAt: now,
		}
		f.nextID++
		f.movies[m.ID] = m
		writeData(w, http.StatusCreated, m)
	})

	mux.HandleFunc("GET /movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		m, ok := f.movies[pathID(r)]
		if !ok {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		writeData(w, http.StatusOK, m)
	})

	mux.HandleFunc("PUT /movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		m, ok := f.movies[pathID(r)]
		if !ok {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		var fields Fields
		json.NewDecoder(r.Body).Decode(&fields)
		m.Title, m.Year, m.Director, m.Genre = fields.Title, fields.Year, fields.Director, fields.Genre
		m.UpdatedAt = time.Now().UTC()
		f.movies[m.ID] = m
		writeData(w, http.StatusOK, m)
	})

	mux.HandleFunc("DELETE /movies/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.requests++
		id := pathID(r)
		if _, ok := f.movies[id]; !ok {
			writeError(w, http.StatusNotFound, "movie not found")
			return
		}
		delete(f.movies, id)
		writeData(w, http.StatusOK, nil)
	})

	return mux
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.WriteHeader(status)
	resp := map[string]any{"success": true}
	if data != nil {
		resp["data"] = data
	}
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(api.Response{Success: false, Error: msg})
}

func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewMemory()
	require.NoError(t, store.Save("t1", &api.User{ID: 1, Username: "a"}))

	client, err := api.NewClient(server.URL, store, zerolog.Nop())
	require.NoError(t, err)

	return NewService(client, zerolog.Nop())
}

func TestListEmpty(t *testing.T) {
	svc := newTestService(t, newFakeBackend().handler())

	movies, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestCreateThenListRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend.handler())
	ctx := context.Background()

	created, err := svc.Create(ctx, Fields{
		Title:    "Dune",
		Year:     2021,
		Director: "D. Villeneuve",
		Genre:    "Sci-Fi",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID, "backend assigns the id")
	assert.Equal(t, "Dune", created.Title)
	assert.False(t, created.CreatedAt.IsZero())

	movies, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Dune", movies[0].Title)
	assert.Equal(t, created.ID, movies[0].ID)
}

func TestUpdateThenListRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend.handler())
	ctx := context.Background()

	created, err := svc.Create(ctx, Fields{Title: "Dune", Year: 2021, Director: "D. Villeneuve", Genre: "Sci-Fi"})
	require.NoError(t, err)

	// Full-field replace.
	updated, err := svc.Update(ctx, created.ID, Fields{
		Title:    "Dune: Part Two",
		Year:     2024,
		Director: "D. Villeneuve",
		Genre:    "Sci-Fi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part Two", updated.Title)
	assert.Equal(t, 2024, updated.Year)

	movies, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Dune: Part Two", movies[0].Title)
}

func TestDeleteThenListRoundTrip(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend.handler())
	ctx := context.Background()

	created, err := svc.Create(ctx, Fields{Title: "Dune", Year: 2021, Director: "D. Villeneuve", Genre: "Sci-Fi"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	movies, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestDeleteNotFound(t *testing.T) {
	svc := newTestService(t, newFakeBackend().handler())

	err := svc.Delete(context.Background(), 42)
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestGet(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend.handler())
	ctx := context.Background()

	created, err := svc.Create(ctx, Fields{Title: "Dune", Year: 2021, Director: "D. Villeneuve", Genre: "Sci-Fi"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Dune", got.Title)

	_, err = svc.Get(ctx, 999)
	require.Error(t, err)
	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNotFound())
}

func TestUpdateOwnershipViolation(t *testing.T) {
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusForbidden, "not your movie")
	}))

	_, err := svc.Update(context.Background(), 7, Fields{Title: "X", Year: 2000, Director: "Y", Genre: "Z"})
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsUnauthorized())
}

func TestFieldValidationBlocksNetwork(t *testing.T) {
	backend := newFakeBackend()
	svc := newTestService(t, backend.handler())
	ctx := context.Background()

	tests := []struct {
		name   string
		fields Fields
		field  string
	}{
		{
			name:   "missing title",
			fields: Fields{Year: 2021, Director: "D", Genre: "G"},
			field:  "title",
		},
		{
			name:   "year zero",
			fields: Fields{Title: "T", Year: 0, Director: "D", Genre: "G"},
			field:  "year",
		},
		{
			name:   "year above range",
			fields: Fields{Title: "T", Year: 2101, Director: "D", Genre: "G"},
			field:  "year",
		},
		{
			name:   "missing director",
			fields: Fields{Title: "T", Year: 2021, Genre: "G"},
			field:  "director",
		},
		{
			name:   "missing genre",
			fields: Fields{Title: "T", Year: 2021, Director: "D"},
			field:  "genre",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.fields)
			require.Error(t, err)

			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.field, valErr.Field)

			_, err = svc.Update(ctx, 1, tt.fields)
			require.Error(t, err)
		})
	}

	assert.Zero(t, backend.requests, "invalid fields must not reach the network")
}

func TestYearBoundsAccepted(t *testing.T) {
	svc := newTestService(t, newFakeBackend().handler())
	ctx := context.Background()

	for _, year := range []int{MinYear, MaxYear} {
		_, err := svc.Create(ctx, Fields{Title: "T", Year: year, Director: "D", Genre: "G"})
		require.NoError(t, err, "year %d is within bounds", year)
	}
}

func TestSearch(t *testing.T) {
	t.Run("blank query never hits the network", func(t *testing.T) {
		var called bool
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		for _, query := range []string{"", "   ", "\t\n"} {
			results, err := svc.Search(context.Background(), query)
			require.NoError(t, err)
			assert.Empty(t, results)
		}
		assert.False(t, called)
	})

	t.Run("results parsed", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/movies/search", r.URL.Path)
			assert.Equal(t, "dune", r.URL.Query().Get("title"))

			json.NewEncoder(w).Encode(map[string]any{
				"success": true,
				"results": []map[string]any{
					{"id": 438631, "title": "Dune", "release_date": "2021-09-15", "poster_path": "/abc.jpg", "vote_average": 7.8},
				},
			})
		}))

		results, err := svc.Search(context.Background(), "dune")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Dune", results[0].Title)
		assert.Equal(t, 2021, results[0].Year())
		assert.Equal(t, "https://image.tmdb.org/t/p/w500/abc.jpg", results[0].PosterURL())
	})

	t.Run("no hits is an empty result", func(t *testing.T) {
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"success": true, "results": []any{}})
		}))

		results, err := svc.Search(context.Background(), "zzzzzz")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("query is trimmed", func(t *testing.T) {
		var gotTitle string
		svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotTitle = r.URL.Query().Get("title")
			json.NewEncoder(w).Encode(map[string]any{"success": true, "results": []any{}})
		}))

		_, err := svc.Search(context.Background(), "  dune  ")
		require.NoError(t, err)
		assert.Equal(t, "dune", gotTitle)
	})
}

func TestSearchResultHelpers(t *testing.T) {
	tests := []struct {
		name     string
		result   SearchResult
		wantYear int
	}{
		{"full date", SearchResult{ReleaseDate: "2021-09-15"}, 2021},
		{"year only", SearchResult{ReleaseDate: "1999"}, 1999},
		{"empty date", SearchResult{}, 0},
		{"garbage date", SearchResult{ReleaseDate: "soon"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantYear, tt.result.Year())
		})
	}

	t.Run("fields pre-fill", func(t *testing.T) {
		r := SearchResult{ID: 438631, Title: "Dune", ReleaseDate: "2021-09-15"}
		fields := r.Fields()
		assert.Equal(t, "Dune", fields.Title)
		assert.Equal(t, 2021, fields.Year)
		assert.Equal(t, "438631", fields.TMDBID)
		assert.Empty(t, fields.Director)
	})

	t.Run("no poster", func(t *testing.T) {
		assert.Empty(t, SearchResult{}.PosterURL())
	})
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "year", Message: fmt.Sprintf("must be between %d and %d", MinYear, MaxYear)}
	assert.Equal(t, "invalid year: must be between 1 and 2100", err.Error())
}

func TestListRequiresBearer(t *testing.T) {
	var gotAuth string
	svc := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"movies": []any{}, "total": 0},
		})
	}))

	_, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotAuth, "Bearer "), "movie calls carry the session token")
}
