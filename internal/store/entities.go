package store

import "time"

// Category is one row of one of the three per-family category tables.
// Family is never persisted as a column; it selects which table a
// Category belongs to.
type Category struct {
	Family       string // "channels", "movies", or "series"
	CategoryID   string
	CategoryName string
	ParentID     *string
}

// Channel mirrors a live-stream entry from get_live_streams.
type Channel struct {
	StreamID          int
	Name              string
	Num               *int
	StreamType        *string
	StreamIcon        *string
	Thumbnail         *string
	EPGChannelID      *string
	Added             *string
	CategoryID        *string
	CustomSID         *string
	TVArchive         *int
	DirectSource      *string
	TVArchiveDuration *int
	UpdatedAt         time.Time
}

// Movie mirrors a get_vod_streams entry.
type Movie struct {
	StreamID            int
	Name                string
	Title               *string
	Year                *int
	StreamType          *string
	StreamIcon          *string
	Rating              *float64
	Rating5Based        *float64
	Genre               *string
	Added               *string
	EpisodeRunTime      *string
	CategoryID          *string
	ContainerExtension  *string
	CustomSID           *string
	DirectSource        *string
	ReleaseDate         *string
	Cast                *string
	Director            *string
	Plot                *string
	YoutubeTrailer      *string
	UpdatedAt           time.Time
}

// Series mirrors a get_series entry (without seasons/episodes, which
// arrive separately from get_series_info).
type Series struct {
	SeriesID       int
	Name           string
	Title          *string
	Year           *int
	Cover          *string
	Plot           *string
	Cast           *string
	Director       *string
	Genre          *string
	ReleaseDate    *string
	LastModified   *string
	Rating         *string
	Rating5Based   *string
	EpisodeRunTime *string
	CategoryID     *string
	UpdatedAt      time.Time
}

// Season belongs to exactly one Series.
type Season struct {
	SeriesID     int
	SeasonNumber int
	Name         *string
	EpisodeCount *int
	Overview     *string
	AirDate      *string
	Cover        *string
	CoverBig     *string
	VoteAverage  *float64
}

// Episode belongs to exactly one Series.
type Episode struct {
	SeriesID           int
	EpisodeID          string
	SeasonNumber       *int
	EpisodeNum         *string
	Title              *string
	ContainerExtension *string
	Info               *string
}

// SeriesDetails bundles a series with its seasons and episodes, as
// returned by get_series_info and persisted in one transaction.
type SeriesDetails struct {
	Series   Series
	Seasons  []Season
	Episodes []Episode
}

// SyncStatus is the per-identity status row.
type SyncStatus struct {
	Identity          string
	Status            string // pending|syncing|completed|failed|partial
	Progress          int
	LastSyncChannels  *time.Time
	LastSyncMovies    *time.Time
	LastSyncSeries    *time.Time
	ChannelsSynced    int
	MoviesSynced      int
	SeriesSynced      int
	LastMessage       *string
}

// SyncSettings is the per-identity preference row.
type SyncSettings struct {
	Identity          string
	AutoSyncEnabled   bool
	SyncIntervalHours int
	WifiOnly          bool
	NotifyOnComplete  bool
}

// Filter narrows get_many/search/count for any content family.
type Filter struct {
	CategoryID    string
	NameContains  string
	Genre         string
	Year          int
	MinRating     float64
	Limit         int
	Offset        int
	SortField     string // "name"|"rating"|"year"|"added" (movies only)
	SortDesc      bool
}
