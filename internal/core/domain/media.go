package domain

// MediaAsset is the result of uploading a local file to the remote media
// host.
type MediaAsset struct {
	URL string `json:"url"`
}
