package oauth

// GoogleConfig holds Google OAuth configuration.
// Endpoint URLs default to Google's production endpoints when empty.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	RedirectURL  string   `env:"GOOGLE_OAUTH_REDIRECT_URL" envDefault:""`
	AuthURL      string   `env:"GOOGLE_OAUTH_AUTH_URL" envDefault:"https://accounts.google.com/o/oauth2/auth"`
	TokenURL     string   `env:"GOOGLE_OAUTH_TOKEN_URL" envDefault:"https://oauth2.googleapis.com/token"`
	UserInfoURL  string   `env:"GOOGLE_OAUTH_USERINFO_URL" envDefault:"https://www.googleapis.com/oauth2/v2/userinfo"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:","`
}

// KakaoConfig holds Kakao OAuth configuration.
// ClientSecret is optional: Kakao only requires it when the app enables it.
type KakaoConfig struct {
	ClientID     string   `env:"KAKAO_OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"KAKAO_OAUTH_CLIENT_SECRET"`
	RedirectURL  string   `env:"KAKAO_OAUTH_REDIRECT_URL" envDefault:""`
	AuthURL      string   `env:"KAKAO_OAUTH_AUTH_URL" envDefault:"https://kauth.kakao.com/oauth/authorize"`
	TokenURL     string   `env:"KAKAO_OAUTH_TOKEN_URL" envDefault:"https://kauth.kakao.com/oauth/token"`
	UserInfoURL  string   `env:"KAKAO_OAUTH_USERINFO_URL" envDefault:"https://kapi.kakao.com/v2/user/me"`
	Scopes       []string `env:"KAKAO_OAUTH_SCOPES" envSeparator:","`
}

// Enabled reports whether the provider has enough configuration to be registered.
func (c GoogleConfig) Enabled() bool { return c.ClientID != "" }

// Enabled reports whether the provider has enough configuration to be registered.
func (c KakaoConfig) Enabled() bool { return c.ClientID != "" }

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
