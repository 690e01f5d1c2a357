package config

import (
	"os"
	"path/filepath"
)

// Default returns the repository defaults applied before file and env values.
func Default() Config {
	cacheRoot := defaultCacheRoot()
	return Config{
		API: API{
			Endpoint:  "https://cloud.kili-technology.com/api/label/v2/graphql",
			VerifySSL: true,
		},
		Endpoints: Endpoints{
			APIV2: "/api/label/v2",
			Files: "/files",
		},
		Paths: Paths{
			StagingDir:  filepath.Join(cacheRoot, "staging"),
			LogDir:      filepath.Join(cacheRoot, "logs"),
			JournalPath: filepath.Join(cacheRoot, "journal.db"),
		},
		Logging: Logging{
			Level:  "info",
			Format: "console",
		},
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
	}
}

func defaultCacheRoot() string {
	if cache, err := os.UserCacheDir(); err == nil {
		return filepath.Join(cache, "kiliexport")
	}
	return filepath.Join(os.TempDir(), "kiliexport")
}
