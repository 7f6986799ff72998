package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/anandvisw/pharmscribe-go/internal/analysis"
	"github.com/anandvisw/pharmscribe-go/internal/annotate"
	"github.com/anandvisw/pharmscribe-go/internal/attachment"
	"github.com/anandvisw/pharmscribe-go/internal/audio"
	"github.com/anandvisw/pharmscribe-go/internal/models"
	"github.com/anandvisw/pharmscribe-go/internal/speech"
)

type attachmentPayload struct {
	Data     string `json:"data"`
	MIMEType string `json:"mimeType"`
}

type analyzeRequest struct {
	Text        string             `json:"text"`
	TriageLevel string             `json:"triageLevel"`
	Attachment  *attachmentPayload `json:"attachment,omitempty"`
	Save        bool               `json:"save,omitempty"`
}

type segmentPayload struct {
	Text       string         `json:"text"`
	Entity     *models.Entity `json:"entity,omitempty"`
	ColorClass string         `json:"colorClass,omitempty"`
}

type analyzeResponse struct {
	Result   *models.AnalysisResult `json:"result"`
	Segments []segmentPayload       `json:"segments"`
	SavedID  string                 `json:"savedId,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, models.ErrInvalidInput)
		return
	}

	var att *attachment.Attachment
	if req.Attachment != nil {
		var err error
		att, err = attachment.FromBase64(req.Attachment.Data, req.Attachment.MIMEType)
		if err != nil {
			writeError(w, s.logger, err)
			return
		}
	}

	result, err := s.analyzer.Analyze(r.Context(), analysis.Request{
		Text:        req.Text,
		TriageLevel: req.TriageLevel,
		Attachment:  att,
	})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	resp := analyzeResponse{
		Result:   result,
		Segments: buildSegments(req.Text, result),
	}

	if req.Save && s.store != nil {
		rec, err := s.store.Save(r.Context(), req.Text, req.TriageLevel, att.Modality(), result)
		if err != nil {
			s.logger.Error("failed to save report", "error", err)
		} else {
			resp.SavedID = rec.ID
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// buildSegments annotates the narrative the report was produced from. For
// attachment-only submissions the transcript stands in for the narrative.
func buildSegments(text string, result *models.AnalysisResult) []segmentPayload {
	narrative := text
	if narrative == "" {
		narrative = result.Transcript
	}

	segments := annotate.Annotate(narrative, result.Entities)
	out := make([]segmentPayload, 0, len(segments))
	for _, seg := range segments {
		p := segmentPayload{Text: seg.Text, Entity: seg.Entity}
		if seg.Entity != nil {
			p.ColorClass = annotate.ColorClass(seg.Entity)
		}
		out = append(out, p)
	}
	return out
}

type speechRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice,omitempty"`
}

type speechResponse struct {
	Audio      string `json:"audio"`
	SampleRate int    `json:"sampleRate"`
}

func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req speechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, models.ErrInvalidInput)
		return
	}
	if req.Text == "" {
		writeError(w, s.logger, models.ErrInvalidInput)
		return
	}

	voice := s.primaryVoice
	if speech.Voice(req.Voice) == speech.VoiceSecondary {
		voice = s.secondaryVoice
	}

	raw, err := s.synth.GenerateSpeech(r.Context(), req.Text, voice)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, speechResponse{
		Audio:      base64.StdEncoding.EncodeToString(raw),
		SampleRate: audio.DefaultSampleRate,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
}

func (s *Server) handleChatStart(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, models.ErrInvalidInput)
		return
	}
	if req.Message == "" {
		writeError(w, s.logger, models.ErrInvalidInput)
		return
	}

	cs := s.newSession()
	cs.mu.Lock()
	reply := cs.session.Send(r.Context(), req.Message)
	cs.mu.Unlock()

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: cs.session.ID(),
		Reply:     reply,
	})
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	cs := s.getSession(chi.URLParam(r, "sessionID"))
	if cs == nil {
		writeJSON(w, http.StatusNotFound, errorPayload{Error: "unknown session"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.logger, models.ErrInvalidInput)
		return
	}
	if req.Message == "" {
		writeError(w, s.logger, models.ErrInvalidInput)
		return
	}

	cs.mu.Lock()
	reply := cs.session.Send(r.Context(), req.Message)
	cs.mu.Unlock()

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID: cs.session.ID(),
		Reply:     reply,
	})
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorPayload{Error: "history disabled"})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": records})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorPayload{Error: "history disabled"})
		return
	}

	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, errorPayload{Error: "report not found"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorPayload{Error: "history disabled"})
		return
	}

	deleted, err := s.store.Delete(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, errorPayload{Error: "report not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type errorPayload struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrSchema), errors.Is(err, models.ErrTransport):
		status = http.StatusBadGateway
	}
	if status >= 500 {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, errorPayload{Error: err.Error()})
}
