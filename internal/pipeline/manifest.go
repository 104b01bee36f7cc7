package pipeline

// Entry describes one produced variant in the manifest written alongside
// the thumbnails. The manifest is a JSON array of entries ordered by the
// size specification, stored at "<sourceKey>.thumbnails.json".
type Entry struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
