package xtream

import (
	"strconv"

	"github.com/Nomadcxx/xtreamcached/internal/store"
)

func flexStringPtr(f *flexString) *string {
	if f == nil {
		return nil
	}
	s := string(*f)
	return &s
}

func toCategory(family string, r rawCategory) store.Category {
	return store.Category{
		Family:       family,
		CategoryID:   string(r.CategoryID),
		CategoryName: r.CategoryName,
		ParentID:     flexStringPtr(r.ParentID),
	}
}

func toChannel(r rawChannel) store.Channel {
	return store.Channel{
		StreamID:          int(r.StreamID),
		Name:              r.Name,
		Num:               r.Num,
		StreamType:        r.StreamType,
		StreamIcon:        r.StreamIcon,
		Thumbnail:         r.Thumbnail,
		EPGChannelID:      r.EPGChannelID,
		Added:             r.Added,
		CategoryID:        flexStringPtr(r.CategoryID),
		CustomSID:         r.CustomSID,
		TVArchive:         r.TVArchive,
		DirectSource:      r.DirectSource,
		TVArchiveDuration: r.TVArchiveDuration,
	}
}

func toMovie(r rawMovie) store.Movie {
	m := store.Movie{
		StreamID:           int(r.StreamID),
		Name:               r.Name,
		Title:              r.Title,
		StreamType:         r.StreamType,
		StreamIcon:         r.StreamIcon,
		Genre:              r.Genre,
		Added:              r.Added,
		EpisodeRunTime:     r.EpisodeRunTime,
		CategoryID:         flexStringPtr(r.CategoryID),
		ContainerExtension: r.ContainerExtension,
		CustomSID:          r.CustomSID,
		DirectSource:       r.DirectSource,
		ReleaseDate:        r.ReleaseDate,
		Cast:               r.Cast,
		Director:           r.Director,
		Plot:               r.Plot,
		YoutubeTrailer:     r.YoutubeTrailer,
	}
	if r.Year != nil {
		y := int(*r.Year)
		m.Year = &y
	}
	if r.Rating != nil {
		v := float64(*r.Rating)
		m.Rating = &v
	}
	if r.Rating5Based != nil {
		v := float64(*r.Rating5Based)
		m.Rating5Based = &v
	}
	return m
}

func toSeries(r rawSeries) store.Series {
	s := store.Series{
		SeriesID:       int(r.SeriesID),
		Name:           r.Name,
		Title:          r.Title,
		Cover:          r.Cover,
		Plot:           r.Plot,
		Cast:           r.Cast,
		Director:       r.Director,
		Genre:          r.Genre,
		ReleaseDate:    r.ReleaseDate,
		LastModified:   r.LastModified,
		Rating:         r.Rating,
		Rating5Based:   r.Rating5Based,
		EpisodeRunTime: r.EpisodeRunTime,
		CategoryID:     flexStringPtr(r.CategoryID),
	}
	if r.Year != nil {
		y := int(*r.Year)
		s.Year = &y
	}
	return s
}

func toSeason(seriesID int, r rawSeason) store.Season {
	return store.Season{
		SeriesID:     seriesID,
		SeasonNumber: int(r.SeasonNumber),
		Name:         r.Name,
		EpisodeCount: r.EpisodeCount,
		Overview:     r.Overview,
		AirDate:      r.AirDate,
		Cover:        r.Cover,
		CoverBig:     r.CoverBig,
		VoteAverage:  flexFloatPtr(r.VoteAverage),
	}
}

func toEpisode(seriesID, seasonNumber int, r rawEpisode) store.Episode {
	e := store.Episode{
		SeriesID:           seriesID,
		EpisodeID:          string(r.ID),
		SeasonNumber:       &seasonNumber,
		Title:              r.Title,
		ContainerExtension: r.ContainerExtension,
	}
	if r.EpisodeNum != nil {
		n := string(*r.EpisodeNum)
		e.EpisodeNum = &n
	}
	if len(r.Info) > 0 {
		info := string(r.Info)
		e.Info = &info
	}
	return e
}

func flexFloatPtr(f *flexFloat) *float64 {
	if f == nil {
		return nil
	}
	v := float64(*f)
	return &v
}

// toSeriesDetails assembles one get_series_info response into the
// persisted shape, stamping every season and episode with seriesID
// since the wire payload only carries it on the info object.
func toSeriesDetails(seriesID int, info rawSeriesInfo) store.SeriesDetails {
	info.Info.SeriesID = flexInt(seriesID)
	details := store.SeriesDetails{Series: toSeries(info.Info)}

	for _, rs := range info.Seasons {
		details.Seasons = append(details.Seasons, toSeason(seriesID, rs))
	}

	for seasonKey, episodes := range info.Episodes {
		seasonNum, err := strconv.Atoi(seasonKey)
		if err != nil {
			continue
		}
		for _, re := range episodes {
			details.Episodes = append(details.Episodes, toEpisode(seriesID, seasonNum, re))
		}
	}

	return details
}
