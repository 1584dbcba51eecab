package model

type SaveNotesRequest struct {
	UnitID       int          `json:"unitId"`
	MelodyNumber MelodyNumber `json:"melodyNumber"`
	Notes        []NoteEdit   `json:"notes"`
}

type SaveNotesResponse struct {
	Success bool `json:"success"`
}

type CreateSessionRequest struct {
	UnitID       int          `json:"unitId"`
	MelodyNumber MelodyNumber `json:"melodyNumber"`
	// "advance" (default) or "replace"
	Policy string `json:"policy,omitempty"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
	MelodyID  string `json:"melodyId"`
	Length    int    `json:"length"`
}

type SubmitRequest struct {
	Pitch string `json:"pitch"`
}

type SubmitResponse struct {
	Status        string      `json:"status"`
	Position      int         `json:"position"`
	Expected      string      `json:"expected,omitempty"`
	Correct       bool        `json:"correct"`
	FirstTryClean bool        `json:"firstTryClean"`
	Complete      bool        `json:"complete"`
	WrongNotes    []WrongNote `json:"wrongNotes"`
}

type UnitSummary struct {
	Unit
	Stars int `json:"stars"`
	Score int `json:"score"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
