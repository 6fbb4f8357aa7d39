package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/roster", handler.GetRoster)
	mux.HandleFunc("GET /v1/matches/{matchID}/lineup", handler.GetLineup)
	mux.HandleFunc("GET /v1/matches/{matchID}/substitutions", handler.ListSubstitutions)
	mux.HandleFunc("GET /v1/matches/{matchID}/shots", handler.ListShots)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.GetMatchTimeline)
	mux.HandleFunc("GET /ws/matches/{matchID}", handler.StreamMatch)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedMatchRoutes(mux, handler, verifier)
	registerAuthorizedRosterRoutes(mux, handler, verifier)
	registerAuthorizedEventRoutes(mux, handler, verifier)
}

func registerAuthorizedMatchRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches", RequireAuth(verifier, http.HandlerFunc(handler.CreateMatch)))
	mux.Handle("POST /v1/matches/{matchID}/transition", RequireAuth(verifier, http.HandlerFunc(handler.TransitionMatch)))
	mux.Handle("PATCH /v1/matches/{matchID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateMatch)))
	mux.Handle("DELETE /v1/matches/{matchID}", RequireAuth(verifier, RequireAdmin(http.HandlerFunc(handler.DeleteMatch))))
}

func registerAuthorizedRosterRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("PUT /v1/matches/{matchID}/roster", RequireAuth(verifier, http.HandlerFunc(handler.ReplaceRoster)))
	mux.Handle("PATCH /v1/roster-entries/{entryID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateRosterEntry)))
}

func registerAuthorizedEventRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/matches/{matchID}/substitutions", RequireAuth(verifier, http.HandlerFunc(handler.ProposeSubstitution)))
	mux.Handle("DELETE /v1/matches/{matchID}/substitutions/{substitutionID}", RequireAuth(verifier, http.HandlerFunc(handler.RetractSubstitution)))
	mux.Handle("POST /v1/matches/{matchID}/shots", RequireAuth(verifier, http.HandlerFunc(handler.RecordShot)))
	mux.Handle("PATCH /v1/shots/{shotID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateShot)))
	mux.Handle("DELETE /v1/shots/{shotID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteShot)))
	mux.Handle("POST /v1/matches/{matchID}/events", RequireAuth(verifier, http.HandlerFunc(handler.RecordGameEvent)))
}
