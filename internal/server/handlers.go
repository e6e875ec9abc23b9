package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ravisuresh229/bidbook/constants"
	"github.com/ravisuresh229/bidbook/internal/common"
	"github.com/ravisuresh229/bidbook/internal/entity"
	"github.com/ravisuresh229/bidbook/internal/pipeline"
	"github.com/ravisuresh229/bidbook/internal/review"
)

const (
	multipartMemory   = 32 << 20
	maxEditValueChars = 500
)

type uploadResponse struct {
	Proposals      entity.RecordSet `json:"proposals"`
	TotalProcessed int              `json:"total_processed"`
	MergeCount     int              `json:"merge_count"`
}

// handleUpload runs every PDF in the "files" field through the pipeline.
// Other files are skipped. A document that fails still yields a row.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := common.LoggerFromContext(ctx, s.logger)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeErr(w, common.WrapError(asInput(err), "parse upload"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		httpError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	dir, err := os.MkdirTemp("", "bidbook-upload-*")
	if err != nil {
		writeErr(w, common.NewAppError("INTERNAL", "create upload dir", err))
		return
	}
	defer func() { _ = os.RemoveAll(dir) }()

	proposals := make(entity.RecordSet, 0, len(files))
	var docs []pipeline.Document
	var slots []int
	for _, fh := range files {
		name := filepath.Base(fh.Filename)
		if !constants.AllowedExt(filepath.Ext(name)) {
			logger.Info("upload.skip", "file", name, "reason", "not a pdf")
			continue
		}
		path, err := saveUpload(dir, len(proposals), fh)
		if err != nil {
			logger.Error("upload.save_failed", "file", name, "err", err)
			proposals = append(proposals, pipeline.ErrorRecord(name, err))
			continue
		}
		slots = append(slots, len(proposals))
		proposals = append(proposals, entity.Record{})
		docs = append(docs, pipeline.Document{Name: name, Path: path})
	}

	if len(docs) > 0 {
		for i, rec := range s.processor.ProcessBatch(ctx, docs) {
			proposals[slots[i]] = rec
		}
	}
	logger.Info("upload.done", "received", len(files), "processed", len(proposals))

	writeJSON(w, http.StatusOK, uploadResponse{
		Proposals:      proposals,
		TotalProcessed: len(proposals),
		MergeCount:     0,
	})
}

func saveUpload(dir string, n int, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	path := filepath.Join(dir, fmt.Sprintf("%03d.pdf", n))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	return path, dst.Close()
}

// handleConfirm accepts either a bare record list or {"proposals": [...]}.
func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := decodeJSON(r, &raw); err != nil {
		writeErr(w, err)
		return
	}
	var records entity.RecordSet
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &records); err != nil {
			writeErr(w, common.InvalidInputErrorf("invalid proposals: %v", err))
			return
		}
	} else {
		var body struct {
			Proposals entity.RecordSet `json:"proposals"`
		}
		if err := json.Unmarshal(trimmed, &body); err != nil {
			writeErr(w, common.InvalidInputErrorf("invalid proposals: %v", err))
			return
		}
		records = body.Proposals
	}

	itb := make(entity.RecordSet, len(records))
	for i, rec := range records {
		itb[i] = rec.Normalize()
	}
	common.LoggerFromContext(r.Context(), s.logger).Info("confirm.done", "count", len(itb))
	writeJSON(w, http.StatusOK, map[string]any{"itb_data": itb})
}

type editRequest struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Value string `json:"value"`
}

type editResult struct {
	Index   int                `json:"index"`
	Field   string             `json:"field"`
	Outcome review.EditOutcome `json:"outcome"`
}

// reviewRequest carries the client's session plus the actions to apply, in
// order: edits, group toggles, collapse toggles, selects, deselects, removals.
type reviewRequest struct {
	review.Session
	Edits          []editRequest `json:"edits"`
	ToggleGroups   []string      `json:"toggle_groups"`
	ToggleCollapse []string      `json:"toggle_collapse"`
	Select         []int         `json:"select"`
	Deselect       []int         `json:"deselect"`
	Remove         []int         `json:"remove"`
}

type sessionResponse struct {
	Session review.Session       `json:"session"`
	View    review.View          `json:"view"`
	Edits   []editResult         `json:"edits,omitempty"`
	Invite  *review.InviteResult `json:"invite,omitempty"`
}

func (s *Server) decodeSession(r *http.Request, req *reviewRequest) error {
	if err := decodeJSON(r, req); err != nil {
		return err
	}
	v := common.NewValidator()
	for i, e := range req.Edits {
		v.Field(fmt.Sprintf("edits[%d].field", i), e.Field, common.Required)
		v.Field(fmt.Sprintf("edits[%d].value", i), e.Value, common.MaxLength(maxEditValueChars))
	}
	if err := common.ValidateAndReturnError(v); err != nil {
		return err
	}
	req.NotificationTTL = s.ttl
	req.Session = req.Session.Normalize()
	return nil
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := s.decodeSession(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	sess, edits, err := applyActions(req)
	if err != nil {
		writeErr(w, err)
		return
	}
	sess = sess.ExpireNotifications(s.now())
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, View: sess.Snapshot(), Edits: edits})
}

func applyActions(req reviewRequest) (review.Session, []editResult, error) {
	sess := req.Session
	var err error
	results := make([]editResult, 0, len(req.Edits))
	for _, e := range req.Edits {
		var outcome review.EditOutcome
		sess, outcome, err = sess.Edit(e.Index, e.Field, e.Value)
		if err != nil {
			return sess, nil, err
		}
		results = append(results, editResult{Index: e.Index, Field: e.Field, Outcome: outcome})
	}
	for _, label := range req.ToggleGroups {
		if sess, err = sess.ToggleGroup(label); err != nil {
			return sess, nil, err
		}
	}
	for _, label := range req.ToggleCollapse {
		sess = sess.ToggleCollapsed(label)
	}
	if sess, err = sess.Select(req.Select...); err != nil {
		return sess, nil, err
	}
	sess = sess.Deselect(req.Deselect...)

	// Highest index first so earlier removals do not renumber later ones.
	remove := review.IndexSet{}.With(req.Remove...).Sorted()
	for i := len(remove) - 1; i >= 0; i-- {
		if sess, err = sess.RemoveRecord(remove[i]); err != nil {
			return sess, nil, err
		}
	}
	return sess, results, nil
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := s.decodeSession(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	now := s.now()
	sess, res, err := req.Session.ExpireNotifications(now).Invite(now)
	if err != nil {
		writeErr(w, err)
		return
	}
	common.LoggerFromContext(r.Context(), s.logger).Info("invite.done",
		"ready", len(res.Ready), "blocked", len(res.Blocked), "new", len(res.NewlyInvited))
	writeJSON(w, http.StatusOK, sessionResponse{Session: sess, View: sess.Snapshot(), Invite: &res})
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := s.decodeSession(r, &req); err != nil {
		writeErr(w, err)
		return
	}
	data, err := s.exporter.ExportXLSX(r.Context(), req.Session)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bids.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func asInput(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return common.NewAppError("INVALID_INPUT", "invalid multipart form", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
}
