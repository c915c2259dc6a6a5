package consts

const (
	MimePrefixImage = "image"
	MimePrefixAudio = "audio"
	MimePrefixVideo = "video"
)

const (
	MaxBatchSize       = 100
	MaxJobBatchSize    = 50
	MaxHashtagBatch    = 50
	DefaultPageSize    = 20
	MaxPageSize        = 100
	MaxSearchLimit     = 50
	MaxGlitchRangeSecs = 10
	StudioFrameRate    = 30
)

const (
	FolderVideos     = "videos"
	FolderThumbnails = "thumbnails"
	FolderImages     = "images"
	FolderFrames     = "frames"
	FolderGlitch     = "glitch"
	FolderTemplates  = "templates"
	FolderSticker    = "sticker"
	FolderMusic      = "music"
)
