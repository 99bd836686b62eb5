package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/rpsref/internal/app"
	"github.com/ayusman/rpsref/internal/referee"
)

type commandRequest struct {
	Command string `json:"command"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.config.Engine.Snapshot())
}

// handleCommand queues a command for the frame loop. The loop applies it on
// its next frame, so the response is 202.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	cmd, err := referee.ParseCommand(req.Command)
	if err != nil || cmd == referee.None {
		writeError(w, http.StatusBadRequest, "unknown command: "+req.Command)
		return
	}

	if err := s.config.Engine.Submit(cmd); err != nil {
		if errors.Is(err, app.ErrCommandQueueFull) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"command": cmd.String()})
}
