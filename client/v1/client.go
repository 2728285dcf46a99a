package v1

type WorktallyClient struct {
	Transport *Transport
	Auth      *AuthEndpoint
	Users     *UserEndpoint
	Clock     *ClockEndpoint
	Stats     *StatsEndpoint
}

func NewWorktallyClient(baseURL string, token string) *WorktallyClient {
	t := NewTransport(baseURL, token)
	return &WorktallyClient{
		Transport: t,
		Auth:      &AuthEndpoint{transport: t},
		Users:     &UserEndpoint{transport: t},
		Clock:     &ClockEndpoint{transport: t},
		Stats:     &StatsEndpoint{transport: t},
	}
}
