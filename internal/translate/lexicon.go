// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package translate

// Provider genre ids.
const (
	GenreAction      = 28
	GenreAdventure   = 12
	GenreAnimation   = 16
	GenreComedy      = 35
	GenreCrime       = 80
	GenreDocumentary = 99
	GenreDrama       = 18
	GenreFamily      = 10751
	GenreFantasy     = 14
	GenreHistory     = 36
	GenreHorror      = 27
	GenreMusic       = 10402
	GenreMystery     = 9648
	GenreRomance     = 10749
	GenreSciFi       = 878
	GenreTVMovie     = 10770
	GenreThriller    = 53
	GenreWar         = 10752
	GenreWestern     = 37
)

// genreLexicon is ordered; with_genres lists codes in this order.
var genreLexicon = []Keyword{
	{"액션", GenreAction},
	{"모험", GenreAdventure},
	{"애니메이션", GenreAnimation},
	{"코미디", GenreComedy},
	{"범죄", GenreCrime},
	{"다큐멘터리", GenreDocumentary},
	{"드라마", GenreDrama},
	{"가족", GenreFamily},
	{"판타지", GenreFantasy},
	{"역사", GenreHistory},
	{"공포", GenreHorror},
	{"음악", GenreMusic},
	{"미스터리", GenreMystery},
	{"로맨스", GenreRomance},
	{"SF", GenreSciFi},
	{"과학소설", GenreSciFi},
	{"TV영화", GenreTVMovie},
	{"스릴러", GenreThriller},
	{"전쟁", GenreWar},
	{"서부", GenreWestern},
	{"느와르", GenreCrime},
	{"멜로", GenreRomance},
	{"뮤지컬", GenreMusic},

	{"action", GenreAction},
	{"adventure", GenreAdventure},
	{"animation", GenreAnimation},
	{"animated", GenreAnimation},
	{"comedy", GenreComedy},
	{"crime", GenreCrime},
	{"documentary", GenreDocumentary},
	{"drama", GenreDrama},
	{"family", GenreFamily},
	{"fantasy", GenreFantasy},
	{"history", GenreHistory},
	{"historical", GenreHistory},
	{"horror", GenreHorror},
	{"music", GenreMusic},
	{"mystery", GenreMystery},
	{"romance", GenreRomance},
	{"romantic", GenreRomance},
	{"sci-fi", GenreSciFi},
	{"science fiction", GenreSciFi},
	{"tv movie", GenreTVMovie},
	{"thriller", GenreThriller},
	{"war", GenreWar},
	{"western", GenreWestern},
	{"noir", GenreCrime},
	{"musical", GenreMusic},
}

// directorLexicon maps well-known directors to provider person ids.
var directorLexicon = []Keyword{
	{"봉준호", 21684},
	{"박찬욱", 13153},
	{"김기덕", 13154},
	{"이창동", 17698},
	{"홍상수", 13155},
	{"임권택", 13156},
	{"크리스토퍼 놀란", 525},
	{"스티븐 스필버그", 488},
	{"마틴 스코세지", 1032},
	{"쿠엔틴 타란티노", 138},

	{"bong joon-ho", 21684},
	{"bong joon ho", 21684},
	{"park chan-wook", 13153},
	{"park chan wook", 13153},
	{"kim ki-duk", 13154},
	{"lee chang-dong", 17698},
	{"hong sang-soo", 13155},
	{"im kwon-taek", 13156},
	{"christopher nolan", 525},
	{"steven spielberg", 488},
	{"martin scorsese", 1032},
	{"quentin tarantino", 138},
}

var (
	koreanOriginKeywords = []Keyword{{Text: "한국영화"}, {Text: "한국 영화"}, {Text: "korean"}}

	recencyKeywords = []Keyword{
		{Text: "최신"}, {Text: "최근"}, {Text: "새로운"}, {Text: "신작"},
		{Text: "latest"}, {Text: "recent"}, {Text: "new"}, {Text: "newest"},
	}

	classicKeywords = []Keyword{
		{Text: "오래된"}, {Text: "고전"}, {Text: "옛날"},
		{Text: "classic"}, {Text: "old"},
	}

	positiveRatingKeywords = []Keyword{
		{Text: "명작"}, {Text: "걸작"}, {Text: "평점높은"}, {Text: "좋은"},
		{Text: "masterpiece"}, {Text: "great"}, {Text: "acclaimed"},
	}

	negativeRatingKeywords = []Keyword{
		{Text: "평점낮은"}, {Text: "별로인"},
		{Text: "low rated"}, {Text: "poorly rated"},
	}

	sortPopularityKeywords  = []Keyword{{Text: "인기"}, {Text: "인기있는"}, {Text: "popular"}}
	sortVoteAverageKeywords = []Keyword{{Text: "평점"}, {Text: "평점순"}, {Text: "top rated"}, {Text: "highest rated"}}
	sortReleaseDateKeywords = []Keyword{{Text: "최신순"}, {Text: "개봉순"}, {Text: "newest first"}}
)

// Compiled matchers, one per keyword group.
var (
	genreMatcher          = NewMatcher(genreLexicon)
	directorMatcher       = NewMatcher(directorLexicon)
	koreanOriginMatcher   = NewMatcher(koreanOriginKeywords)
	recencyMatcher        = NewMatcher(recencyKeywords)
	classicMatcher        = NewMatcher(classicKeywords)
	positiveRatingMatcher = NewMatcher(positiveRatingKeywords)
	negativeRatingMatcher = NewMatcher(negativeRatingKeywords)
	sortPopularityMatcher = NewMatcher(sortPopularityKeywords)
	sortVoteMatcher       = NewMatcher(sortVoteAverageKeywords)
	sortReleaseMatcher    = NewMatcher(sortReleaseDateKeywords)
)

// Genres returns a copy of the genre lexicon in match order.
func Genres() []Keyword {
	return append([]Keyword(nil), genreLexicon...)
}

// Directors returns a copy of the director lexicon in match order.
func Directors() []Keyword {
	return append([]Keyword(nil), directorLexicon...)
}
