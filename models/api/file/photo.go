package fileapimodels

type PhotoView struct {
	Path          string `json:"path"`           // object key, goes to the report photo field
	ThumbnailPath string `json:"thumbnail_path"` // 200px wide JPEG preview
	ContentType   string `json:"content_type"`
	Size          int64  `json:"size"`
}
