package media

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies an audio container format. The set is closed: these are
// the containers the transcription backends accept, so unknown containers are
// reported rather than guessed.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatMP4  Format = "mp4"
	FormatMPEG Format = "mpeg"
	FormatMPGA Format = "mpga"
	FormatM4A  Format = "m4a"
	FormatWAV  Format = "wav"
	FormatWebM Format = "webm"
)

// Formats returns every supported container format.
func Formats() []Format {
	return []Format{FormatMP3, FormatMP4, FormatMPEG, FormatMPGA, FormatM4A, FormatWAV, FormatWebM}
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(value string) (Format, error) {
	cleaned := Format(strings.ToLower(strings.TrimSpace(strings.TrimPrefix(value, "."))))
	for _, format := range Formats() {
		if cleaned == format {
			return format, nil
		}
	}
	return "", fmt.Errorf("unsupported audio format %q", value)
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// String implements fmt.Stringer.
func (f Format) String() string {
	return string(f)
}

// FormatFromExtension derives the format from a path's extension.
func FormatFromExtension(path string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if ext == "" {
		return "", false
	}
	format, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return format, true
}

// FormatFromProbe derives the format from ffprobe's format_name, which may be
// a comma-separated demuxer list (e.g. "mov,mp4,m4a,3gp,3g2,mj2" or
// "matroska,webm"). The file extension disambiguates families that share a
// demuxer; when the extension is unsupported the first supported name wins.
func FormatFromProbe(formatName, path string) (Format, bool) {
	names := strings.Split(strings.ToLower(strings.TrimSpace(formatName)), ",")
	byExt, haveExt := FormatFromExtension(path)

	if haveExt {
		for _, name := range names {
			if Format(strings.TrimSpace(name)) == byExt {
				return byExt, true
			}
		}
		// ffprobe reports .mpga audio as mp3 and .mpeg as mpegts/mpeg;
		// trust the extension for those aliases.
		if byExt == FormatMPGA || byExt == FormatMPEG {
			return byExt, true
		}
	}

	for _, name := range names {
		if format, err := ParseFormat(strings.TrimSpace(name)); err == nil {
			return format, true
		}
	}
	return "", false
}
