package rpc

import (
	"encoding/json"
	"net/http"
)

// restPrefix is the public API root of the cryptocurrency service.
const restPrefix = "/api/services/cryptocurrency/v1"

// handleRESTToken serves GET /token?symbol=<s>.
func (s *Server) handleRESTToken(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	tok, rpcErr := s.lookupToken(symbol)
	if rpcErr != nil {
		status := http.StatusInternalServerError
		if rpcErr.Code == CodeNotFound {
			status = http.StatusNotFound
		}
		writeREST(w, status, rpcErr.Message)
		return
	}
	writeREST(w, http.StatusOK, NewTokenResult(tok))
}

// handleRESTTokens serves GET /tokens.
func (s *Server) handleRESTTokens(w http.ResponseWriter, _ *http.Request) {
	tokens, rpcErr := s.listTokens()
	if rpcErr != nil {
		writeREST(w, http.StatusInternalServerError, rpcErr.Message)
		return
	}
	writeREST(w, http.StatusOK, tokens)
}

func writeREST(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
