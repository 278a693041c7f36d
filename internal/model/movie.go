package model

// Movie represents a row in the `movies` table.  GenreID and DirectorID
// reference the genres and directors tables respectively.
type Movie struct {
	ID          uint64  `json:"id"`          // movies.id
	Title       string  `json:"title"`       // movies.title
	Description string  `json:"description"` // movies.description
	Trailer     string  `json:"trailer"`     // movies.trailer (URL)
	Year        int     `json:"year"`        // movies.year
	Rating      float64 `json:"rating"`      // movies.rating
	GenreID     uint64  `json:"genre_id"`    // movies.genre_id
	DirectorID  uint64  `json:"director_id"` // movies.director_id
}

// MovieFilter narrows a movie listing.  Zero values mean "no filter" for
// that field; set fields are combined with AND.
type MovieFilter struct {
	DirectorID uint64
	GenreID    uint64
	Year       int
}
