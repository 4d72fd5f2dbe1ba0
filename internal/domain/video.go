package domain

import "time"

// VideoStatus enumerates the lifecycle stages of a video.
type VideoStatus string

const (
	VideoStatusQueued      VideoStatus = "queued"
	VideoStatusRunning     VideoStatus = "running"
	VideoStatusTranscoding VideoStatus = "transcoding"
	VideoStatusScoring     VideoStatus = "scoring"
	VideoStatusReady       VideoStatus = "ready"
	VideoStatusFailed      VideoStatus = "failed"
)

// Terminal reports whether the status ends a video's generation lifecycle.
func (s VideoStatus) Terminal() bool {
	return s == VideoStatusReady || s == VideoStatusFailed
}

// VideoSource enumerates how a video entered the system.
type VideoSource string

const (
	VideoSourceUploaded  VideoSource = "uploaded"
	VideoSourceGenerated VideoSource = "generated"
)

// URLBundle groups the addressable artifacts of a video. Fields are empty
// until the video reaches ready.
type URLBundle struct {
	MP4       string `json:"mp4,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Preview   string `json:"preview,omitempty"`
}

// Empty reports whether no artifact URL has been populated yet.
func (u URLBundle) Empty() bool {
	return u.MP4 == "" && u.Thumbnail == "" && u.Preview == ""
}

// ScoreBundle carries the per-dimension quality metrics attached to a ready
// video. Each component is scored independently on a 0-100 scale.
type ScoreBundle struct {
	Hook          int `json:"hook"`
	Pacing        int `json:"pacing"`
	Clarity       int `json:"clarity"`
	BrandSafety   int `json:"brandSafety"`
	DurationFit   int `json:"durationFit"`
	VisualQuality int `json:"visualQuality"`
	AudioQuality  int `json:"audioQuality"`
	Overall       int `json:"overall"`
}

// Video represents a short-form video owned by a project.
type Video struct {
	ID          string       `json:"id"`
	OrgID       string       `json:"orgId"`
	ProjectID   string       `json:"projectId"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      VideoStatus  `json:"status"`
	Source      VideoSource  `json:"source"`
	DurationSec float64      `json:"durationSec"`
	AspectRatio string       `json:"aspectRatio"`
	Resolution  string       `json:"resolution"`
	URLs        URLBundle    `json:"urls"`
	Score       *ScoreBundle `json:"score,omitempty"`
	Version     int          `json:"version"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// VideoSort enumerates the supported listing orders.
type VideoSort string

const (
	VideoSortNewest    VideoSort = "newest"
	VideoSortOldest    VideoSort = "oldest"
	VideoSortScoreHigh VideoSort = "score-high"
	VideoSortScoreLow  VideoSort = "score-low"
	VideoSortTitleAZ   VideoSort = "title-az"
)

// VideoFilter captures the listing boundary's query parameters.
type VideoFilter struct {
	Query     string
	Statuses  []VideoStatus
	MinScore  int
	ProjectID string
	Source    VideoSource
	Sort      VideoSort
}
