package fetcher

// Quality/format profile mapping for the yt-dlp collaborator. Pure
// functions: an unrecognized quality falls back to a documented default
// instead of failing the job.

// mp4FormatSelector returns the yt-dlp format selector for a video request.
// Unknown qualities fall back to best available.
func mp4FormatSelector(quality string) string {
	switch quality {
	case "4k":
		return "bestvideo[height<=2160][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=2160]+bestaudio"
	case "2k":
		return "bestvideo[height<=1440][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=1440]+bestaudio"
	case "1080p":
		return "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=1080]+bestaudio"
	case "720p":
		return "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=720]+bestaudio"
	case "480p":
		return "bestvideo[height<=480][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=480]+bestaudio"
	case "360p":
		return "bestvideo[height<=360][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=360]+bestaudio"
	default: // includes "best"
		return "bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio"
	}
}

// mp3AudioQuality maps a CBR-style bitrate label onto a yt-dlp VBR index
// (0 is best, 9 is worst). Unknown values fall back to a middle setting.
func mp3AudioQuality(quality string) string {
	switch quality {
	case "320":
		return "0"
	case "256":
		return "2"
	case "192":
		return "4"
	case "128":
		return "6"
	case "96":
		return "8"
	default:
		return "4"
	}
}
