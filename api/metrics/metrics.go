package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	SuccessfulRequests *prometheus.CounterVec
	BadRequests        *prometheus.CounterVec
	MessagesSent       *prometheus.CounterVec
	FollowRequests     *prometheus.CounterVec
	UnfollowRequests   *prometheus.CounterVec
	LikeRequests       *prometheus.CounterVec
	Signups            *prometheus.CounterVec
	Logins             *prometheus.CounterVec
}

func Init() *Metrics {
	m := &Metrics{
		SuccessfulRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_successful_requests_total",
				Help: "Total number of successful (2xx/3xx) HTTP requests",
			},
			[]string{"path"},
		),
		BadRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_bad_requests_total",
				Help: "Total number of rejected (4xx) HTTP requests",
			},
			[]string{"path"},
		),
		MessagesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_messages_total",
				Help: "Total number of messages posted",
			},
			[]string{"path"},
		),
		FollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_follows_total",
				Help: "Total number of successful follow requests",
			},
			[]string{"path"},
		),
		UnfollowRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_unfollows_total",
				Help: "Total number of successful unfollow requests",
			},
			[]string{"path"},
		),
		LikeRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_likes_total",
				Help: "Total number of like toggles",
			},
			[]string{"path"},
		),
		Signups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_signups_total",
				Help: "Total number of successful signups",
			},
			[]string{"path"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warbler_logins_total",
				Help: "Total number of successful logins",
			},
			[]string{"path"},
		),
	}

	prometheus.MustRegister(
		m.SuccessfulRequests,
		m.BadRequests,
		m.MessagesSent,
		m.FollowRequests,
		m.UnfollowRequests,
		m.LikeRequests,
		m.Signups,
		m.Logins,
	)

	return m
}

// The counters below are nil-safe so handlers can count unconditionally
// even when the server was bootstrapped without a metrics registry.

func (m *Metrics) CountSuccess(path string) {
	if m != nil {
		m.SuccessfulRequests.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountBadRequest(path string) {
	if m != nil {
		m.BadRequests.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountMessage(path string) {
	if m != nil {
		m.MessagesSent.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountFollow(path string) {
	if m != nil {
		m.FollowRequests.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountUnfollow(path string) {
	if m != nil {
		m.UnfollowRequests.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountLike(path string) {
	if m != nil {
		m.LikeRequests.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountSignup(path string) {
	if m != nil {
		m.Signups.WithLabelValues(path).Inc()
	}
}

func (m *Metrics) CountLogin(path string) {
	if m != nil {
		m.Logins.WithLabelValues(path).Inc()
	}
}
