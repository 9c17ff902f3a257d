package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the REST endpoints and the game websocket.
func NewRouter(rest *RESTHandler, ws *WSHandler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", rest.Health).Methods(http.MethodGet)
	r.HandleFunc("/ws", ws.ServeWS).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/leaderboard", rest.Leaderboard).Methods(http.MethodGet)
	v1.HandleFunc("/stats", rest.Stats).Methods(http.MethodGet)
	v1.HandleFunc("/catalog/{difficulty}", rest.Catalog).Methods(http.MethodGet)
	v1.HandleFunc("/countries/{symbol}", rest.Country).Methods(http.MethodGet)
	return r
}
