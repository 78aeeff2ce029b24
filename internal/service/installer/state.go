package installer

const (
	channelTelegram = "Telegram"
	channelTerminal = "Terminal only"
)

// Settings is written to the runtime .env file. Zero values are omitted
// so the runtime defaults apply.
type Settings struct {
	WeatherAPIKey   string `env:"OPENWEATHER_API_KEY"`
	NewsAPIKey      string `env:"NEWSAPI_KEY"`
	NewsCountry     string `env:"AIDE_NEWS_COUNTRY"`
	DefaultCity     string `env:"AIDE_DEFAULT_CITY"`
	DemoMode        bool   `env:"AIDE_DEMO_MODE"`
	EnableTelegram  *bool  `env:"AIDE_ENABLE_TELEGRAM"`
	EnableCLI       *bool  `env:"AIDE_ENABLE_CLI"`
	TelegramToken   string `env:"AIDE_TELEGRAM_TOKEN"`
	TelegramOwnerID int64  `env:"AIDE_TELEGRAM_OWNER_ID"`
}

type InstallState struct {
	Settings Settings
	Channel  string
	// EnvPath is set once the .env file is written.
	EnvPath string
}

func NewInstallState() *InstallState {
	return &InstallState{}
}
