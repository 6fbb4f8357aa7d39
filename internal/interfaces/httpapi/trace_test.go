package httpapi

import "testing"

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{name: "handler span", in: "httpapi.Handler.GetMatch", want: true},
		{name: "middleware span", in: "httpapi.RequestLogging", want: false},
		{name: "helper span", in: "httpapi.writeError", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shouldCreateHTTPAPISpan(tt.in)
			if got != tt.want {
				t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", tt.in, got, tt.want)
			}
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "/healthz", want: false},
		{path: "/readyz", want: false},
		{path: "/v1/matches", want: true},
		{path: "/ws/matches/match-1", want: true},
	}

	for _, tt := range tests {
		if got := shouldTraceRequest(tt.path); got != tt.want {
			t.Fatalf("shouldTraceRequest(%q)=%v want=%v", tt.path, got, tt.want)
		}
	}
}
