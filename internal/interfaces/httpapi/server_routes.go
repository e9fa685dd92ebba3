package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerRosterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /players", handler.ListPlayers)
	mux.HandleFunc("POST /players", handler.CreatePlayer)
	mux.HandleFunc("POST /players/import", handler.ImportPlayers)
	mux.HandleFunc("PATCH /players/{playerID}", handler.UpdatePlayer)
	mux.HandleFunc("DELETE /players/{playerID}", handler.DeletePlayer)
	mux.HandleFunc("POST /players/{playerID}/stints", handler.AppendStints)
	mux.HandleFunc("GET /teams", handler.ListTeams)
}
