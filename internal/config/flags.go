package config

import "flag"

var (
	Dev         bool
	LogPath     string
	File        string
	APIBaseURL  string
	SessionPath string
	DownloadDir string
	Mock        bool
	MockAddr    string
	Ephemeral   bool

	explicit = map[string]bool{}
)

func Init() {
	flag.BoolVar(&Dev, "dev", false, "Development mode")
	flag.StringVar(&LogPath, "logPath", "", "Path to save the log file")
	flag.StringVar(&File, "config", "", "Path to a YAML config file")
	flag.StringVar(&APIBaseURL, "api", "", "Base URL of the loan backend")
	flag.StringVar(&SessionPath, "session", "", "Path to the session database")
	flag.StringVar(&DownloadDir, "downloads", "", "Directory sanction letters are saved to")
	flag.BoolVar(&Mock, "mock", false, "Run the local dev backend next to the UI")
	flag.StringVar(&MockAddr, "mockAddr", "", "Listen address of the dev backend")
	flag.BoolVar(&Ephemeral, "ephemeral", false, "Keep the session in memory only")
	flag.Parse()

	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})
}
