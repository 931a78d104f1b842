package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeCSV         = "text/csv"
	MimeOctetStream = "application/octet-stream"
)

const AudioObjectDir = "dictation_audio"

var (
	AllowedAudioExtensions = []string{".mp3", ".wav", ".ogg"}
	AllowedAudioMimeTypes  = []string{"audio/", "application/ogg", MimeOctetStream}
)

// 管理员清空数据时必须输入的确认语
const PurgeConfirmation = "DELETE ALL DATA"
