package config

// RealtimeConfig contains configuration for the outbound realtime
// connection bound to each session.
type RealtimeConfig struct {
	// Enabled turns the realtime binding on. Sessions work without it;
	// they just don't receive push updates.
	Enabled bool `env:"ENABLED" envDefault:"true"`

	// Endpoint is the websocket URL of the realtime service.
	Endpoint string `env:"ENDPOINT" envDefault:"ws://localhost:9092/stream"`

	// Origin is the origin header sent on the websocket handshake.
	Origin string `env:"ORIGIN" envDefault:"http://localhost:8080"`

	// Param is the query parameter name carrying the credential.
	Param string `env:"PARAM" envDefault:"token"`
}

// Sanitize applies guardrails to realtime configuration values.
func (r *RealtimeConfig) Sanitize() {
	if r.Param == "" {
		r.Param = "token"
	}
}
