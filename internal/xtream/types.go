package xtream

import (
	"encoding/json"
	"strconv"
	"strings"
)

// flexString unmarshals a JSON string or number into a Go string,
// tolerating the shape drift xtream-compatible panels are known for
// (category_id, ratings, and ids arrive as either).
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(strings.Trim(string(b), `"`))
	return nil
}

// flexInt unmarshals a JSON string or number into a Go int, or leaves
// the zero value on an empty string.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		// Some panels send floats for integer fields ("1.0").
		var fl float64
		if jerr := json.Unmarshal([]byte(s), &fl); jerr == nil {
			*f = flexInt(int(fl))
			return nil
		}
		return err
	}
	*f = flexInt(n)
	return nil
}

// rawCategory is the wire shape of one get_*_categories entry.
type rawCategory struct {
	CategoryID   flexString `json:"category_id"`
	CategoryName string     `json:"category_name"`
	ParentID     *flexString `json:"parent_id"`
}

// rawChannel is the wire shape of one get_live_streams entry.
type rawChannel struct {
	StreamID          flexInt     `json:"stream_id"`
	Name              string      `json:"name"`
	Num               *int        `json:"num"`
	StreamType        *string     `json:"stream_type"`
	StreamIcon        *string     `json:"stream_icon"`
	Thumbnail         *string     `json:"thumbnail"`
	EPGChannelID      *string     `json:"epg_channel_id"`
	Added             *string     `json:"added"`
	CategoryID        *flexString `json:"category_id"`
	CustomSID         *string     `json:"custom_sid"`
	TVArchive         *int        `json:"tv_archive"`
	DirectSource      *string     `json:"direct_source"`
	TVArchiveDuration *int        `json:"tv_archive_duration"`
}

// rawMovie is the wire shape of one get_vod_streams entry.
type rawMovie struct {
	StreamID           flexInt     `json:"stream_id"`
	Name               string      `json:"name"`
	Title              *string     `json:"title"`
	Year               *flexIntPtr `json:"year"`
	StreamType         *string     `json:"stream_type"`
	StreamIcon         *string     `json:"stream_icon"`
	Rating             *flexFloat  `json:"rating"`
	Rating5Based       *flexFloat  `json:"rating_5based"`
	Genre              *string     `json:"genre"`
	Added              *string     `json:"added"`
	EpisodeRunTime     *string     `json:"episode_run_time"`
	CategoryID         *flexString `json:"category_id"`
	ContainerExtension *string     `json:"container_extension"`
	CustomSID          *string     `json:"custom_sid"`
	DirectSource       *string     `json:"direct_source"`
	ReleaseDate        *string     `json:"release_date"`
	Cast               *string     `json:"cast"`
	Director           *string     `json:"director"`
	Plot               *string     `json:"plot"`
	YoutubeTrailer     *string     `json:"youtube_trailer"`
}

// rawSeries is the wire shape of one get_series entry.
type rawSeries struct {
	SeriesID       flexInt     `json:"series_id"`
	Name           string      `json:"name"`
	Title          *string     `json:"title"`
	Year           *flexIntPtr `json:"year"`
	Cover          *string     `json:"cover"`
	Plot           *string     `json:"plot"`
	Cast           *string     `json:"cast"`
	Director       *string     `json:"director"`
	Genre          *string     `json:"genre"`
	ReleaseDate    *string     `json:"release_date"`
	LastModified   *string     `json:"last_modified"`
	Rating         *string     `json:"rating"`
	Rating5Based   *string     `json:"rating_5based"`
	EpisodeRunTime *string     `json:"episode_run_time"`
	CategoryID     *flexString `json:"category_id"`
}

// rawSeriesInfo is the wire shape of get_series_info: an object with
// info, seasons, and episodes (episodes keyed by season number string).
type rawSeriesInfo struct {
	Info     rawSeries              `json:"info"`
	Seasons  []rawSeason            `json:"seasons"`
	Episodes map[string][]rawEpisode `json:"episodes"`
}

type rawSeason struct {
	SeasonNumber flexInt    `json:"season_number"`
	Name         *string    `json:"name"`
	EpisodeCount *int       `json:"episode_count"`
	Overview     *string    `json:"overview"`
	AirDate      *string    `json:"air_date"`
	Cover        *string    `json:"cover"`
	CoverBig     *string    `json:"cover_big"`
	VoteAverage  *flexFloat `json:"vote_average"`
}

type rawEpisode struct {
	ID                 flexString `json:"id"`
	EpisodeNum         *flexString `json:"episode_num"`
	Title              *string    `json:"title"`
	ContainerExtension *string    `json:"container_extension"`
	Info               json.RawMessage `json:"info"`
}

// flexIntPtr and flexFloat tolerate numeric fields arriving as either
// JSON strings or JSON numbers.
type flexIntPtr int

func (f *flexIntPtr) UnmarshalJSON(b []byte) error {
	var fi flexInt
	if err := fi.UnmarshalJSON(b); err != nil {
		return err
	}
	*f = flexIntPtr(fi)
	return nil
}

type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
