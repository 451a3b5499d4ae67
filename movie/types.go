package movie

import (
	"strconv"
	"time"
)

// Movie is a catalog entry owned by the authenticated user. All
// fields except the form fields are assigned by the backend.
type Movie struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	Director  string    `json:"director"`
	Genre     string    `json:"genre"`
	PosterURL string    `json:"poster_url,omitempty"`
	IMDBID    string    `json:"imdb_id,omitempty"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Fields is the client-supplied portion of a movie, used for both
// create and full-replace update.
type Fields struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Director string `json:"director"`
	Genre    string `json:"genre"`
	TMDBID   string `json:"tmdb_id,omitempty"`
}

// SearchResult is a hit from the external catalog. Results are
// ephemeral; they exist only to pre-fill the add-movie fields.
type SearchResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	PosterPath  string  `json:"poster_path,omitempty"`
	ReleaseDate string  `json:"release_date,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
}

const posterBaseURL = "https://image.tmdb.org/t/p/w500"

// Year infers the release year from the catalog's release date, or 0
// when none is known.
func (r SearchResult) Year() int {
	if len(r.ReleaseDate) < 4 {
		return 0
	}
	year, err := strconv.Atoi(r.ReleaseDate[:4])
	if err != nil {
		return 0
	}
	return year
}

// PosterURL builds the full poster image URL, or "" when the catalog
// has no poster.
func (r SearchResult) PosterURL() string {
	if r.PosterPath == "" {
		return ""
	}
	return posterBaseURL + r.PosterPath
}

// Fields pre-fills movie fields from the search hit. Director and
// genre are not part of the catalog's search payload and stay empty
// for the user to fill in.
func (r SearchResult) Fields() Fields {
	return Fields{
		Title:  r.Title,
		Year:   r.Year(),
		TMDBID: strconv.FormatInt(r.ID, 10),
	}
}
