// OpusCine - Movie Metadata Broker with Streaming Availability
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opuscine

package translate

import (
	"reflect"
	"testing"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/tomtom215/opuscine/internal/models"
)

var fixedNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func rulesOnly() *Translator {
	return New(Options{Now: func() time.Time { return fixedNow }})
}

func TestRulesOrder(t *testing.T) {
	t.Parallel()

	want := []string{"genre", "origin_country", "year", "recency", "classic", "director", "rating", "sort"}
	if got := Rules(); !reflect.DeepEqual(got, want) {
		t.Errorf("Rules() = %v, want %v", got, want)
	}
}

func TestTranslateRules_Defaults(t *testing.T) {
	t.Parallel()

	res := rulesOnly().TranslateRules("아무거나 추천해줘")
	want := models.Params{
		models.ParamLanguage: "ko-KR",
		models.ParamSortBy:   models.SortPopularityDesc,
	}
	if !reflect.DeepEqual(res.Parameters, want) {
		t.Errorf("Parameters = %v, want %v", res.Parameters, want)
	}
	if res.Method != models.MethodRule || res.Confidence != RuleConfidence {
		t.Errorf("method=%s confidence=%v", res.Method, res.Confidence)
	}
	if res.OriginalText != "아무거나 추천해줘" {
		t.Errorf("OriginalText = %q", res.OriginalText)
	}
}

func TestTranslateRules_YearRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		text    string
		wantGTE string
		wantLTE string
	}{
		{"bare year", "2019 영화", "2019-01-01", "2019-12-31"},
		{"year with suffix", "2019년 개봉작", "2019-01-01", "2019-12-31"},
		{"last year token wins", "2015년 아니고 2019년", "2019-01-01", "2019-12-31"},
		{"english", "movies from 2019", "2019-01-01", "2019-12-31"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := rulesOnly().TranslateRules(tt.text).Parameters
			if p[models.ParamReleaseGTE] != tt.wantGTE || p[models.ParamReleaseLTE] != tt.wantLTE {
				t.Errorf("range = %v..%v, want %s..%s", p[models.ParamReleaseGTE], p[models.ParamReleaseLTE], tt.wantGTE, tt.wantLTE)
			}
		})
	}
}

func TestTranslateRules_RecencyOverridesYearLowerBound(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"2019년 최근 영화", "recent movies like 2019"} {
		p := rulesOnly().TranslateRules(text).Parameters
		if got := p[models.ParamReleaseGTE]; got != "2025-01-01" {
			t.Errorf("%q: gte = %v, want 2025-01-01", text, got)
		}
		if got := p[models.ParamReleaseLTE]; got != "2019-12-31" {
			t.Errorf("%q: lte = %v, want the year rule's 2019-12-31", text, got)
		}
	}
}

func TestTranslateRules_RecencyUsesClock(t *testing.T) {
	t.Parallel()

	tr := New(Options{Now: func() time.Time { return time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC) }})
	if got := tr.TranslateRules("최신 영화").Parameters[models.ParamReleaseGTE]; got != "2030-01-01" {
		t.Errorf("gte = %v, want 2030-01-01", got)
	}
}

func TestTranslateRules_Classic(t *testing.T) {
	t.Parallel()

	p := rulesOnly().TranslateRules("고전 명작").Parameters
	if p[models.ParamReleaseLTE] != ClassicUpperBound {
		t.Errorf("lte = %v", p[models.ParamReleaseLTE])
	}
	if p[models.ParamVoteAverageGTE] != HighRatingFloor {
		t.Errorf("vote_average.gte = %v", p[models.ParamVoteAverageGTE])
	}

	// classic runs after year, so its upper bound replaces the year's
	p = rulesOnly().TranslateRules("1995년 옛날 영화").Parameters
	if p[models.ParamReleaseGTE] != "1995-01-01" || p[models.ParamReleaseLTE] != ClassicUpperBound {
		t.Errorf("range = %v..%v", p[models.ParamReleaseGTE], p[models.ParamReleaseLTE])
	}
}

func TestTranslateRules_Genres(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want []int
	}{
		{"액션 영화", []int{GenreAction}},
		{"스릴러 액션", []int{GenreAction, GenreThriller}},
		{"범죄 느와르", []int{GenreCrime}},
		{"SF 영화", []int{GenreSciFi}},
		{"sf영화", []int{GenreSciFi}},
		{"a sci-fi horror movie", []int{GenreHorror, GenreSciFi}},
		{"award winning drama", []int{GenreDrama}},
		{"멜로 로맨스 romance", []int{GenreRomance}},
	}
	for _, tt := range tests {
		got, _ := rulesOnly().TranslateRules(tt.text).Parameters[models.ParamWithGenres].([]int)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: with_genres = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestTranslateRules_DecomposedHangul(t *testing.T) {
	t.Parallel()

	decomposed := norm.NFD.String("액션 영화")
	if decomposed == "액션 영화" {
		t.Fatal("fixture should be decomposed")
	}
	got, _ := rulesOnly().TranslateRules(decomposed).Parameters[models.ParamWithGenres].([]int)
	if !reflect.DeepEqual(got, []int{GenreAction}) {
		t.Errorf("with_genres = %v", got)
	}
}

func TestTranslateRules_Directors(t *testing.T) {
	t.Parallel()

	p := rulesOnly().TranslateRules("박찬욱이나 봉준호 감독 작품").Parameters
	if got := p[models.ParamWithPeople]; !reflect.DeepEqual(got, []int{21684, 13153}) {
		t.Errorf("with_people = %v", got)
	}

	p = rulesOnly().TranslateRules("Christopher Nolan movies").Parameters
	if got := p[models.ParamWithPeople]; !reflect.DeepEqual(got, []int{525}) {
		t.Errorf("with_people = %v", got)
	}
}

func TestTranslateRules_OriginCountry(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"한국영화 추천", "한국 영화", "korean thriller"} {
		if got := rulesOnly().TranslateRules(text).Parameters[models.ParamOriginCountry]; got != OriginKorea {
			t.Errorf("%q: with_origin_country = %v", text, got)
		}
	}
}

func TestTranslateRules_Rating(t *testing.T) {
	t.Parallel()

	p := rulesOnly().TranslateRules("평점낮은 영화").Parameters
	if p[models.ParamVoteAverageLTE] != LowRatingCeiling {
		t.Errorf("vote_average.lte = %v", p[models.ParamVoteAverageLTE])
	}
	if _, ok := p[models.ParamVoteAverageGTE]; ok {
		t.Error("did not expect a lower bound")
	}

	p = rulesOnly().TranslateRules("걸작인데 평점낮은 영화").Parameters
	if p[models.ParamVoteAverageGTE] != HighRatingFloor {
		t.Errorf("positive keyword should win, got %v", p)
	}
	if _, ok := p[models.ParamVoteAverageLTE]; ok {
		t.Error("negative bound should not be set when a positive keyword matched")
	}
}

func TestTranslateRules_SortLastMatchWins(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want string
	}{
		{"인기 영화", models.SortPopularityDesc},
		{"평점순 정렬", models.SortVoteAverageDesc},
		{"인기 평점순", models.SortVoteAverageDesc},
		{"개봉순", models.SortReleaseDateDesc},
		{"인기 평점순 개봉순", models.SortReleaseDateDesc},
		{"top rated popular movies", models.SortVoteAverageDesc},
	}
	for _, tt := range tests {
		if got := rulesOnly().TranslateRules(tt.text).Parameters[models.ParamSortBy]; got != tt.want {
			t.Errorf("%q: sort_by = %v, want %s", tt.text, got, tt.want)
		}
	}
}

func TestTranslateRules_Combined(t *testing.T) {
	t.Parallel()

	p := rulesOnly().TranslateRules("봉준호 감독의 2019년 범죄 스릴러 명작, 평점순으로").Parameters
	want := models.Params{
		models.ParamLanguage:       "ko-KR",
		models.ParamSortBy:         models.SortVoteAverageDesc,
		models.ParamWithGenres:     []int{GenreCrime, GenreThriller},
		models.ParamReleaseGTE:     "2019-01-01",
		models.ParamReleaseLTE:     "2019-12-31",
		models.ParamWithPeople:     []int{21684},
		models.ParamVoteAverageGTE: HighRatingFloor,
	}
	if !reflect.DeepEqual(p, want) {
		t.Errorf("Parameters =\n%v\nwant\n%v", p, want)
	}
}
