// Package api serves notes, units, progress and practice sessions to the
// browser client.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/eartrainer/catalog"
	"github.com/jsphweid/eartrainer/matcher"
	"github.com/jsphweid/eartrainer/model"
	"github.com/jsphweid/eartrainer/progress"
	"github.com/jsphweid/eartrainer/store"
	"github.com/pkg/errors"
	"github.com/rs/cors"
)

const saveFailed = "Failed to save notes"

// SessionTTL is how long a practice session survives without a
// submission.
const SessionTTL = 30 * time.Minute

type session struct {
	// lastUsed is guarded by Server.mu
	lastUsed time.Time

	mu       sync.Mutex
	unitID   int
	melodyID string
	matcher  *matcher.Matcher
	recorded bool
}

type Server struct {
	notes    *store.Store
	progress progress.Store
	logger   *log.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func New(notes *store.Store, p progress.Store, logger *log.Logger) *Server {
	return &Server{
		notes:    notes,
		progress: p,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/api/save-notes", s.HandleSaveNotes).Methods("POST")
	router.HandleFunc("/api/units", s.HandleUnits).Methods("GET")
	router.HandleFunc("/api/units/{unitId}/melodies/{melodyNumber}/notes", s.HandleNotes).Methods("GET")
	router.HandleFunc("/api/progress/{unitId}", s.HandleProgress).Methods("GET")
	router.HandleFunc("/api/sessions", s.HandleCreateSession).Methods("POST")
	router.HandleFunc("/api/sessions/{id}/submit", s.HandleSubmit).Methods("POST")
	router.HandleFunc("/api/sessions/{id}", s.HandleDeleteSession).Methods("DELETE")
	return router
}

// Handler is the router behind CORS for origins.
func (s *Server) Handler(origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(s.Router())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func intVar(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || v < 1 {
		return 0, errors.Errorf("%s must be a positive integer", name)
	}
	return v, nil
}

func (s *Server) HandleSaveNotes(w http.ResponseWriter, r *http.Request) {
	var input model.SaveNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Could not parse request body: "+err.Error())
		return
	}
	if input.UnitID < 1 || input.MelodyNumber < 1 {
		writeError(w, http.StatusBadRequest, "unitId and melodyNumber must be positive integers")
		return
	}

	merged, err := s.notes.Save(input.UnitID, int(input.MelodyNumber), input.Notes)
	var invalid *store.InvalidNoteError
	switch {
	case errors.As(err, &invalid):
		writeError(w, http.StatusBadRequest, invalid.Error())
		return
	case err != nil:
		s.logger.Error("saving notes", "unit", input.UnitID, "melody", int(input.MelodyNumber), "err", err)
		writeError(w, http.StatusInternalServerError, saveFailed)
		return
	}

	s.logger.Info("saved notes", "unit", input.UnitID, "melody", int(input.MelodyNumber), "notes", len(merged))
	writeJSON(w, http.StatusOK, model.SaveNotesResponse{Success: true})
}

func (s *Server) HandleUnits(w http.ResponseWriter, r *http.Request) {
	units := catalog.Units()
	res := make([]model.UnitSummary, 0, len(units))
	for _, u := range units {
		p, err := progress.Load(r.Context(), s.progress, u)
		if err != nil {
			s.logger.Error("loading progress", "unit", u.ID, "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to load progress")
			return
		}
		res = append(res, model.UnitSummary{Unit: u, Stars: p.Stars, Score: p.Score})
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleNotes(w http.ResponseWriter, r *http.Request) {
	unitID, err := intVar(r, "unitId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	number, err := intVar(r, "melodyNumber")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seq, err := s.notes.Resolve(unitID, number)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Error("loading notes", "unit", unitID, "melody", number, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to load notes")
		return
	}
	writeJSON(w, http.StatusOK, model.NotesFile{Notes: seq})
}

func (s *Server) HandleProgress(w http.ResponseWriter, r *http.Request) {
	unitID, err := intVar(r, "unitId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	unit, ok := catalog.Unit(unitID)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown unit")
		return
	}
	p, err := progress.Load(r.Context(), s.progress, unit)
	if err != nil {
		s.logger.Error("loading progress", "unit", unitID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	var input model.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Could not parse request body: "+err.Error())
		return
	}
	policy, err := matcher.ParsePolicy(input.Policy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	melody, err := catalog.Melody(input.UnitID, int(input.MelodyNumber))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	seq, err := s.notes.Resolve(input.UnitID, melody.Number)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case err != nil:
		s.logger.Error("loading notes", "melody", melody.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "Failed to load notes")
		return
	}

	m := matcher.New(policy)
	m.Reset(seq)
	id := uuid.NewString()

	s.mu.Lock()
	s.prune()
	s.sessions[id] = &session{lastUsed: s.now(), unitID: input.UnitID, melodyID: melody.ID, matcher: m}
	s.mu.Unlock()

	s.logger.Debug("session created", "id", id, "melody", melody.ID, "policy", policy)
	writeJSON(w, http.StatusCreated, model.CreateSessionResponse{SessionID: id, MelodyID: melody.ID, Length: len(seq)})
}

// prune drops sessions idle for longer than SessionTTL. s.mu must be held.
func (s *Server) prune() {
	now := s.now()
	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > SessionTTL {
			delete(s.sessions, id)
			s.logger.Debug("session expired", "id", id, "melody", sess.melodyID)
		}
	}
}

func (s *Server) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	sess, ok := s.sessions[id]
	if ok {
		sess.lastUsed = s.now()
	}
	return sess, ok
}

// Sessions is the number of live practice sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	return len(s.sessions)
}

func (s *Server) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(mux.Vars(r)["id"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	var input model.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Could not parse request body: "+err.Error())
		return
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	res := sess.matcher.Submit(input.Pitch)
	st := sess.matcher.State()

	if st.Complete && !sess.recorded {
		attempt := sess.matcher.Attempt(sess.melodyID, s.now())
		if err := s.progress.RecordAttempt(r.Context(), sess.unitID, attempt); err != nil {
			s.logger.Error("recording attempt", "melody", sess.melodyID, "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to record attempt")
			return
		}
		sess.recorded = true
		s.logger.Info("attempt recorded", "melody", sess.melodyID, "success", attempt.Success)
	}

	writeJSON(w, http.StatusOK, model.SubmitResponse{
		Status:        string(res.Status),
		Position:      res.Position,
		Expected:      res.Expected,
		Correct:       res.Correct,
		FirstTryClean: st.FirstTryClean,
		Complete:      st.Complete,
		WrongNotes:    st.WrongNotes,
	})
}

func (s *Server) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
