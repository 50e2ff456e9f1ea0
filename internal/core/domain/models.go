package domain

// TemplateRecord is the result of processing one CapCut template: the
// extracted page metadata plus the hosted media URLs produced by the
// uploader. Records are built once and never mutated afterwards.
type TemplateRecord struct {
	Title        string   `json:"title"`
	TemplateID   string   `json:"template_id,omitempty"`
	CapcutLink   string   `json:"capcut_link,omitempty"`
	VideoURL     string   `json:"video_url"`
	ThumbnailURL string   `json:"thumbnail_url"`
	SourceURL    string   `json:"web_url,omitempty"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Duration     string   `json:"duration,omitempty"`
}

// Complete reports whether the record made it through both uploads.
// Only complete records may join the exported collection.
func (r TemplateRecord) Complete() bool {
	return r.VideoURL != "" && r.ThumbnailURL != ""
}
