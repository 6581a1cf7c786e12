package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile      string
	PackagesDir  string
	Route        string
	Text         string
	BatchFile    string
	ListPackages bool
	NoHistory    bool
	Archive      bool

	// Translator flags
	Backend   string
	ServerURL string

	// Logging flags
	LogLevel  string
	LogFormat string

	// Subcommand flags
	HistoryLimit  int
	ServerAddress string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Route:         "en:es",
		Backend:       "server",
		LogLevel:      "warn",
		LogFormat:     "text",
		HistoryLimit:  20,
		ServerAddress: "127.0.0.1:8080",
	}
}
