// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package models

// Movie is a provider list item (discover, search, popular).
// Nullable provider strings decode to "".
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	ReleaseDate      string  `json:"release_date"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
}

// Page is one page of provider list results.
type Page struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// Genre is a provider genre code and its localized name.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is one credited performer.
type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is one credited crew member.
type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits lists the cast and crew of a movie.
type Credits struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the crew members credited as director.
func (c Credits) Directors() []CrewMember {
	var out []CrewMember
	for _, member := range c.Crew {
		if member.Job == "Director" {
			out = append(out, member)
		}
	}
	return out
}

// Video is a trailer or clip hosted by a third party.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// Image is one artwork file.
type Image struct {
	FilePath    string  `json:"file_path"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	AspectRatio float64 `json:"aspect_ratio"`
}

// MovieDetails is the full provider record of one movie with the appended
// credits, videos and images.
type MovieDetails struct {
	Movie
	Runtime  int     `json:"runtime"`
	Tagline  string  `json:"tagline"`
	Status   string  `json:"status"`
	Genres   []Genre `json:"genres"`
	Homepage string  `json:"homepage"`
	IMDbID   string  `json:"imdb_id"`

	Credits *Credits `json:"credits,omitempty"`
	Videos  *struct {
		Results []Video `json:"results"`
	} `json:"videos,omitempty"`
	Images *struct {
		Backdrops []Image `json:"backdrops"`
		Posters   []Image `json:"posters"`
	} `json:"images,omitempty"`
}
