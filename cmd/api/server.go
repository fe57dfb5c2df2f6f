package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coiflow/compliance"
	"coiflow/identity"
	"coiflow/importer"
	"coiflow/roster"
	"coiflow/upload"
)

const dateLayout = "2006-01-02"

// parseDateField parses an optional YYYY-MM-DD request field. Empty stays the
// zero time so domain validation can report what is missing; anything else
// malformed is rejected at the request boundary.
func parseDateField(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", field)
	}
	return t, nil
}

type documentService interface {
	Create(ctx context.Context, params compliance.RecordParams) (compliance.Document, error)
	Get(ctx context.Context, id string) (compliance.DocumentStatus, error)
	List(ctx context.Context, filters compliance.Filters) ([]compliance.DocumentStatus, error)
	AlertsDue(ctx context.Context) ([]compliance.DocumentStatus, error)
	Renew(ctx context.Context, id string, expiration time.Time) (compliance.DocumentStatus, error)
	Delete(ctx context.Context, id string) error
}

type importService interface {
	PreviewFolder(ctx context.Context) (importer.Preview, error)
	Commit(ctx context.Context, decisions []importer.Decision) (importer.CommitResult, error)
}

type rosterService interface {
	List(ctx context.Context) ([]roster.Person, error)
	Get(ctx context.Context, id string) (roster.Person, error)
}

type uploadWorkflow interface {
	State() upload.State
	Draft() (upload.Draft, error)
	Analyze(ctx context.Context, fileName string, data []byte) (upload.Draft, error)
	Edit(params compliance.RecordParams) error
	Confirm(ctx context.Context) (compliance.Document, error)
	Cancel()
}

// Server bundles the HTTP handlers over the domain services.
type Server struct {
	documents documentService
	imports   importService
	roster    rosterService
	uploads   uploadWorkflow
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/roster", s.handleRoster)
	mux.HandleFunc("/api/roster/", s.handleRosterDetail)
	mux.HandleFunc("/api/identity/resolve", s.handleResolve)
	mux.HandleFunc("/api/documents", s.handleDocuments)
	mux.HandleFunc("/api/documents/alerts", s.handleAlerts)
	mux.HandleFunc("/api/documents/", s.handleDocumentDetail)
	mux.HandleFunc("/api/imports/preview", s.handleImportPreview)
	mux.HandleFunc("/api/imports/commit", s.handleImportCommit)
	mux.HandleFunc("/api/uploads", s.handleUploadState)
	mux.HandleFunc("/api/uploads/analyze", s.handleUploadAnalyze)
	mux.HandleFunc("/api/uploads/draft", s.handleUploadDraft)
	mux.HandleFunc("/api/uploads/confirm", s.handleUploadConfirm)
	mux.HandleFunc("/api/uploads/cancel", s.handleUploadCancel)
	return mux
}

// --- roster & identity ---

type personResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func toPersonResponse(p roster.Person) personResponse {
	return personResponse{ID: p.ID, FirstName: p.FirstName, LastName: p.LastName, Email: p.Email}
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	people, err := s.roster.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}
	out := make([]personResponse, 0, len(people))
	for _, p := range people {
		out = append(out, toPersonResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRosterDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/roster/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "employee id required")
		return
	}
	person, err := s.roster.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, roster.ErrPersonNotFound) {
			writeError(w, http.StatusNotFound, "employee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load employee")
		return
	}
	writeJSON(w, http.StatusOK, toPersonResponse(person))
}

type suggestionResponse struct {
	Person personResponse `json:"person"`
	Score  int            `json:"score"`
}

type matchResponse struct {
	EmployeeID    string               `json:"employeeId,omitempty"`
	Confidence    int                  `json:"confidence"`
	MatchType     identity.MatchType   `json:"matchType"`
	MatchedPerson *personResponse      `json:"matchedPerson,omitempty"`
	Suggestions   []suggestionResponse `json:"suggestions"`
}

func toMatchResponse(m identity.Match) matchResponse {
	resp := matchResponse{
		EmployeeID:  m.EmployeeID,
		Confidence:  m.Confidence,
		MatchType:   m.Type,
		Suggestions: make([]suggestionResponse, 0, len(m.Suggestions)),
	}
	if m.MatchedPerson != nil {
		p := toPersonResponse(*m.MatchedPerson)
		resp.MatchedPerson = &p
	}
	for _, sg := range m.Suggestions {
		resp.Suggestions = append(resp.Suggestions, suggestionResponse{Person: toPersonResponse(sg.Person), Score: sg.Score})
	}
	return resp
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name query parameter required")
		return
	}
	people, err := s.roster.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load roster")
		return
	}
	writeJSON(w, http.StatusOK, toMatchResponse(identity.Resolve(name, people)))
}

// --- documents ---

type cadenceResponse struct {
	Label    string `json:"label"`
	Severity int    `json:"severity"`
}

type documentResponse struct {
	ID             string            `json:"id"`
	EmployeeID     *string           `json:"employeeId,omitempty"`
	ExternalName   *string           `json:"externalName,omitempty"`
	Type           string            `json:"type"`
	IssueDate      string            `json:"issueDate"`
	ExpirationDate string            `json:"expirationDate"`
	PolicyNumber   *string           `json:"policyNumber,omitempty"`
	InsurerName    *string           `json:"insurerName,omitempty"`
	SourceFileID   *string           `json:"sourceFileId,omitempty"`
	Notes          *string           `json:"notes,omitempty"`
	Status         compliance.Status `json:"status"`
	Cadence        cadenceResponse   `json:"cadence"`
	DaysRemaining  int               `json:"daysRemaining"`
	CreatedAt      string            `json:"createdAt"`
}

func toDocumentResponse(d compliance.DocumentStatus) documentResponse {
	return documentResponse{
		ID:             d.ID,
		EmployeeID:     d.Document.EmployeeID,
		ExternalName:   d.ExternalName,
		Type:           string(d.Type),
		IssueDate:      d.IssueDate.Format(dateLayout),
		ExpirationDate: d.ExpirationDate.Format(dateLayout),
		PolicyNumber:   d.PolicyNumber,
		InsurerName:    d.InsurerName,
		SourceFileID:   d.SourceFileID,
		Notes:          d.Notes,
		Status:         d.Status,
		Cadence:        cadenceResponse{Label: d.Cadence.Label, Severity: d.Cadence.Severity},
		DaysRemaining:  d.DaysRemaining,
		CreatedAt:      d.CreatedAt.Format(time.RFC3339),
	}
}

type createDocumentRequest struct {
	EmployeeID     string `json:"employeeId"`
	ExternalName   string `json:"externalName"`
	Type           string `json:"type"`
	IssueDate      string `json:"issueDate"`
	ExpirationDate string `json:"expirationDate"`
	PolicyNumber   string `json:"policyNumber"`
	InsurerName    string `json:"insurerName"`
	Notes          string `json:"notes"`
}

func (s *Server) handleDocuments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		s.handleCreateDocument(w, r)
		return
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	filters := compliance.Filters{
		EmployeeID: r.URL.Query().Get("employeeId"),
		Type:       compliance.DocumentType(r.URL.Query().Get("type")),
	}
	docs, err := s.documents.List(r.Context(), filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := compliance.RecordParams{
		EmployeeID:   req.EmployeeID,
		ExternalName: req.ExternalName,
		Type:         compliance.DocumentType(req.Type),
		PolicyNumber: req.PolicyNumber,
		InsurerName:  req.InsurerName,
		Notes:        req.Notes,
	}
	var err error
	if params.IssueDate, err = parseDateField("issueDate", req.IssueDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.ExpirationDate, err = parseDateField("expirationDate", req.ExpirationDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := s.documents.Create(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, compliance.ErrAssignmentMissing),
			errors.Is(err, compliance.ErrAssignmentAmbiguous),
			errors.Is(err, compliance.ErrMissingIssueDate),
			errors.Is(err, compliance.ErrMissingExpiration),
			errors.Is(err, compliance.ErrInvalidType):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to create document")
		}
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(compliance.Snapshot(doc, time.Now())))
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	docs, err := s.documents.AlertsDue(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list alerts")
		return
	}
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	writeJSON(w, http.StatusOK, out)
}

type renewRequest struct {
	ExpirationDate string `json:"expirationDate"`
}

func (s *Server) handleDocumentDetail(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id required")
		return
	}

	switch {
	case action == "renew" && r.Method == http.MethodPost:
		var req renewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		expiration, err := time.Parse(dateLayout, req.ExpirationDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "expirationDate must be YYYY-MM-DD")
			return
		}
		doc, err := s.documents.Renew(r.Context(), id, expiration)
		if err != nil {
			writeDocumentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDocumentResponse(doc))
	case action == "" && r.Method == http.MethodGet:
		doc, err := s.documents.Get(r.Context(), id)
		if err != nil {
			writeDocumentError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDocumentResponse(doc))
	case action == "" && r.Method == http.MethodDelete:
		if err := s.documents.Delete(r.Context(), id); err != nil {
			writeDocumentError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func writeDocumentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, compliance.ErrNotFound):
		writeError(w, http.StatusNotFound, "document not found")
	case errors.Is(err, compliance.ErrMissingExpiration):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "document operation failed")
	}
}

// --- imports ---

type decisionRequest struct {
	SourceFileID   string `json:"sourceFileId"`
	Selected       bool   `json:"selected"`
	EmployeeID     string `json:"employeeId"`
	ExternalName   string `json:"externalName"`
	Type           string `json:"type"`
	IssueDate      string `json:"issueDate"`
	ExpirationDate string `json:"expirationDate"`
	PolicyNumber   string `json:"policyNumber"`
	InsurerName    string `json:"insurerName"`
	Notes          string `json:"notes"`
}

func (r decisionRequest) toDecision() (importer.Decision, error) {
	d := importer.Decision{
		SourceFileID: r.SourceFileID,
		Selected:     r.Selected,
		EmployeeID:   r.EmployeeID,
		ExternalName: r.ExternalName,
		Type:         compliance.DocumentType(r.Type),
		PolicyNumber: r.PolicyNumber,
		InsurerName:  r.InsurerName,
		Notes:        r.Notes,
	}
	var err error
	if d.IssueDate, err = parseDateField("issueDate", r.IssueDate); err != nil {
		return importer.Decision{}, err
	}
	if d.ExpirationDate, err = parseDateField("expirationDate", r.ExpirationDate); err != nil {
		return importer.Decision{}, err
	}
	return d, nil
}

type decisionResponse struct {
	SourceFileID   string `json:"sourceFileId"`
	Selected       bool   `json:"selected"`
	EmployeeID     string `json:"employeeId,omitempty"`
	ExternalName   string `json:"externalName,omitempty"`
	Type           string `json:"type,omitempty"`
	IssueDate      string `json:"issueDate,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
	PolicyNumber   string `json:"policyNumber,omitempty"`
	InsurerName    string `json:"insurerName,omitempty"`
}

func toDecisionResponse(d importer.Decision) decisionResponse {
	resp := decisionResponse{
		SourceFileID: d.SourceFileID,
		Selected:     d.Selected,
		EmployeeID:   d.EmployeeID,
		ExternalName: d.ExternalName,
		Type:         string(d.Type),
		PolicyNumber: d.PolicyNumber,
		InsurerName:  d.InsurerName,
	}
	if !d.IssueDate.IsZero() {
		resp.IssueDate = d.IssueDate.Format(dateLayout)
	}
	if !d.ExpirationDate.IsZero() {
		resp.ExpirationDate = d.ExpirationDate.Format(dateLayout)
	}
	return resp
}

type candidateResponse struct {
	SourceFileID    string           `json:"sourceFileId"`
	FileName        string           `json:"fileName"`
	WebLink         string           `json:"webLink"`
	InsuredName     string           `json:"insuredName"`
	Match           matchResponse    `json:"match"`
	AlreadyImported bool             `json:"alreadyImported"`
	Defaults        decisionResponse `json:"defaults"`
}

type extractionErrorResponse struct {
	SourceFileID string `json:"sourceFileId"`
	FileName     string `json:"fileName"`
	Error        string `json:"error"`
}

type previewResponse struct {
	Candidates []candidateResponse       `json:"candidates"`
	Errors     []extractionErrorResponse `json:"errors"`
}

func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	preview, err := s.imports.PreviewFolder(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, "failed to preview import folder")
		return
	}

	resp := previewResponse{
		Candidates: make([]candidateResponse, 0, len(preview.Candidates)),
		Errors:     make([]extractionErrorResponse, 0, len(preview.Errors)),
	}
	for _, c := range preview.Candidates {
		resp.Candidates = append(resp.Candidates, candidateResponse{
			SourceFileID:    c.SourceFileID,
			FileName:        c.FileName,
			WebLink:         c.WebLink,
			InsuredName:     c.Parsed.BestName(),
			Match:           toMatchResponse(c.Match),
			AlreadyImported: c.AlreadyImported,
			Defaults:        toDecisionResponse(c.DefaultDecision()),
		})
	}
	for _, e := range preview.Errors {
		resp.Errors = append(resp.Errors, extractionErrorResponse{
			SourceFileID: e.SourceFileID,
			FileName:     e.FileName,
			Error:        e.Err.Error(),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type commitRequest struct {
	Decisions []decisionRequest `json:"decisions"`
}

type outcomeResponse struct {
	SourceFileID string `json:"sourceFileId"`
	Outcome      string `json:"outcome"`
	DocumentID   string `json:"documentId,omitempty"`
	Error        string `json:"error,omitempty"`
}

type commitResponse struct {
	BatchID  string            `json:"batchId"`
	Imported int               `json:"imported"`
	Skipped  int               `json:"skipped"`
	Failed   int               `json:"failed"`
	Outcomes []outcomeResponse `json:"outcomes"`
}

func (s *Server) handleImportCommit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req commitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Decisions == nil {
		writeError(w, http.StatusBadRequest, "decisions required")
		return
	}

	decisions := make([]importer.Decision, 0, len(req.Decisions))
	for i, d := range req.Decisions {
		decision, err := d.toDecision()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("decisions[%d]: %s", i, err))
			return
		}
		decisions = append(decisions, decision)
	}

	result, err := s.imports.Commit(r.Context(), decisions)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "commit failed")
		return
	}

	resp := commitResponse{
		BatchID:  result.BatchID,
		Imported: result.Imported,
		Skipped:  result.Skipped,
		Failed:   result.Failed,
		Outcomes: make([]outcomeResponse, 0, len(result.Outcomes)),
	}
	for _, o := range result.Outcomes {
		item := outcomeResponse{
			SourceFileID: o.SourceFileID,
			Outcome:      string(o.Outcome),
			DocumentID:   o.DocumentID,
		}
		if o.Err != nil {
			item.Error = o.Err.Error()
		}
		resp.Outcomes = append(resp.Outcomes, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- single upload ---

type draftResponse struct {
	FileName string           `json:"fileName"`
	Match    matchResponse    `json:"match"`
	Params   decisionResponse `json:"params"`
}

func toDraftResponse(d upload.Draft) draftResponse {
	params := decisionResponse{
		EmployeeID:   d.Params.EmployeeID,
		ExternalName: d.Params.ExternalName,
		Type:         string(d.Params.Type),
		PolicyNumber: d.Params.PolicyNumber,
		InsurerName:  d.Params.InsurerName,
	}
	if !d.Params.IssueDate.IsZero() {
		params.IssueDate = d.Params.IssueDate.Format(dateLayout)
	}
	if !d.Params.ExpirationDate.IsZero() {
		params.ExpirationDate = d.Params.ExpirationDate.Format(dateLayout)
	}
	return draftResponse{
		FileName: d.FileName,
		Match:    toMatchResponse(d.Match),
		Params:   params,
	}
}

type uploadStateResponse struct {
	State string         `json:"state"`
	Draft *draftResponse `json:"draft,omitempty"`
}

func (s *Server) handleUploadState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	resp := uploadStateResponse{State: string(s.uploads.State())}
	if draft, err := s.uploads.Draft(); err == nil {
		d := toDraftResponse(draft)
		resp.Draft = &d
	}
	writeJSON(w, http.StatusOK, resp)
}

type analyzeRequest struct {
	FileName string `json:"fileName"`
	Data     []byte `json:"data"`
}

func (s *Server) handleUploadAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FileName == "" || len(req.Data) == 0 {
		writeError(w, http.StatusBadRequest, "fileName and data required")
		return
	}

	draft, err := s.uploads.Analyze(r.Context(), req.FileName, req.Data)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNotEmpty), errors.Is(err, upload.ErrAnalyzing):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, toDraftResponse(draft))
}

type draftEditRequest struct {
	EmployeeID     string `json:"employeeId"`
	ExternalName   string `json:"externalName"`
	Type           string `json:"type"`
	IssueDate      string `json:"issueDate"`
	ExpirationDate string `json:"expirationDate"`
	PolicyNumber   string `json:"policyNumber"`
	InsurerName    string `json:"insurerName"`
	Notes          string `json:"notes"`
}

func (s *Server) handleUploadDraft(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req draftEditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	params := compliance.RecordParams{
		EmployeeID:   req.EmployeeID,
		ExternalName: req.ExternalName,
		Type:         compliance.DocumentType(req.Type),
		PolicyNumber: req.PolicyNumber,
		InsurerName:  req.InsurerName,
		Notes:        req.Notes,
	}
	var err error
	if params.IssueDate, err = parseDateField("issueDate", req.IssueDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.ExpirationDate, err = parseDateField("expirationDate", req.ExpirationDate); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.uploads.Edit(params); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUploadConfirm(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	doc, err := s.uploads.Confirm(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNoDraft), errors.Is(err, upload.ErrAnalyzing):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, compliance.ErrAssignmentMissing),
			errors.Is(err, compliance.ErrAssignmentAmbiguous),
			errors.Is(err, compliance.ErrMissingIssueDate),
			errors.Is(err, compliance.ErrMissingExpiration),
			errors.Is(err, compliance.ErrInvalidType):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "confirm failed")
		}
		return
	}
	writeJSON(w, http.StatusCreated, toDocumentResponse(compliance.Snapshot(doc, time.Now())))
}

func (s *Server) handleUploadCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.uploads.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
