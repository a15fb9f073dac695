package config

type UploadConfig struct {
	AllowedMimeTypes []string
	MaxSizeMB        int64
	PathPrefix       string
}

var UploadContexts = map[string]UploadConfig{
	// Иллюстрация к шагу протокола (загрузка оператором или сгенерированная)
	"step_image": {
		AllowedMimeTypes: []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		MaxSizeMB:        10,
		PathPrefix:       "protocol-steps",
	},
}
