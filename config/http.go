package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for auth cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// ReadTimeoutSeconds bounds the time spent reading a request.
	ReadTimeoutSeconds int `env:"HTTP_READ_TIMEOUT_SECONDS" envDefault:"30"`

	// WriteTimeoutSeconds bounds the time spent writing a response.
	WriteTimeoutSeconds int `env:"HTTP_WRITE_TIMEOUT_SECONDS" envDefault:"30"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.ReadTimeoutSeconds < 1 {
		h.ReadTimeoutSeconds = 30
	}
	if h.WriteTimeoutSeconds < 1 {
		h.WriteTimeoutSeconds = 30
	}
}
