package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/skip2/go-qrcode"

	apperrors "github.com/katsuo-ito/slotsync/internal/errors"
	"github.com/katsuo-ito/slotsync/internal/linkify"
	"github.com/katsuo-ito/slotsync/internal/model"
	"github.com/katsuo-ito/slotsync/internal/results"
	"github.com/katsuo-ito/slotsync/internal/tabular"
)

// handleHome serves the public-ID entry form
func (h *Handlers) handleHome(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.templates.Home, nil)
}

// handleOpen redirects to the respond page for the entered public ID.
// Blank input stays on the home page, matching the original form.
func (h *Handlers) handleOpen(w http.ResponseWriter, r *http.Request) {
	publicID := strings.TrimSpace(r.FormValue("publicId"))
	if publicID == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/e/"+url.PathEscape(publicID), http.StatusFound)
}

// handleRespondPage fetches the event and serves the response form
func (h *Handlers) handleRespondPage(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	session := h.Sessions.Get(publicID)
	// Fetch errors land in the snapshot; the page renders them inline.
	_ = session.Fetch(r.Context())
	h.render(w, h.templates.Respond, buildRespondView(session.Snapshot(), "", ""))
}

// handleEditPage is the capability-link landing: it reuses the respond form
// so a respondent can revise their answers through the same flow
func (h *Handlers) handleEditPage(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	editKey := chi.URLParam(r, "editKey")
	session := h.Sessions.Get(publicID)
	_ = session.Fetch(r.Context())
	h.render(w, h.templates.Respond, buildRespondView(session.Snapshot(), editKey, ""))
}

// handleRespondSubmit applies the form's per-slot answers and submits them
func (h *Handlers) handleRespondSubmit(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	editKey := chi.URLParam(r, "editKey")
	session := h.Sessions.Get(publicID)

	if err := r.ParseForm(); err != nil {
		h.render(w, h.templates.Respond, &RespondView{PublicID: publicID, Error: "Malformed form submission."})
		return
	}

	snap := session.Snapshot()
	if snap.Event != nil {
		for _, slot := range snap.Event.Candidates {
			field := fmt.Sprintf("slot-%d", slot.CandidateSlotID)
			if value, ok := model.ParseAvailability(r.FormValue(field)); ok {
				session.SetAvailability(slot.CandidateSlotID, value)
			}
		}
	}

	name := r.FormValue("respondentName")
	err := session.Submit(r.Context(), name)

	view := buildRespondView(session.Snapshot(), editKey, name)
	if err != nil && apperrors.KindOf(err) == apperrors.ErrInput {
		// Precondition failures never reach the network and are not part of
		// the submit state machine; show them directly.
		view.Error = err.Error()
	}
	h.render(w, h.templates.Respond, view)
}

// handleResultsPage fetches the tallies and renders proportional bars
func (h *Handlers) handleResultsPage(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	view := &ResultsView{PublicID: publicID}

	snapshot, err := h.Client.FetchResults(r.Context(), publicID)
	if err != nil {
		if apperrors.IsCanceled(err) {
			return
		}
		view.Error, view.ErrStatus = describeError(err)
		h.render(w, h.templates.Results, view)
		return
	}

	view.Snapshot = snapshot
	view.Rows = results.BuildRows(snapshot)
	h.render(w, h.templates.Results, view)
}

// handleAdminPage serves the organizer inspection form
func (h *Handlers) handleAdminPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, h.templates.Admin, &AdminView{
		PublicID:   chi.URLParam(r, "publicID"),
		ServiceURL: h.Client.BaseURL(),
	})
}

// handleAdminFetch retrieves the raw submissions and renders them as a
// table plus a linkified JSON block
func (h *Handlers) handleAdminFetch(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	view := &AdminView{PublicID: publicID, ServiceURL: h.Client.BaseURL()}

	adminKey := r.FormValue("adminKey")
	if strings.TrimSpace(adminKey) == "" {
		view.KeyError = "Enter the admin key."
		h.render(w, h.templates.Admin, view)
		return
	}

	raw, err := h.Client.FetchAdminResponses(r.Context(), publicID, adminKey)
	if err != nil {
		if apperrors.IsCanceled(err) {
			return
		}
		message, status := describeError(err)
		if status != 0 {
			view.Error = fmt.Sprintf("Fetch failed. status=%d %s", status, message)
		} else {
			view.Error = message
		}
		view.ErrStatus = status
		h.render(w, h.templates.Admin, view)
		return
	}

	view.HasData = true
	view.JSON = linkify.Split(tabular.Pretty(raw))
	if projection := tabular.Project(raw); projection != nil {
		view.Columns = projection.Columns
		view.Rows = make([][]Cell, 0, len(projection.Rows))
		for _, row := range projection.Rows {
			cells := make([]Cell, 0, len(projection.Columns))
			for _, column := range projection.Columns {
				value, present := projection.Cell(row, column)
				display := tabular.FormatValue(value, present)
				cells = append(cells, Cell{Fragments: linkify.Split(display)})
			}
			view.Rows = append(view.Rows, cells)
		}
	}
	h.render(w, h.templates.Admin, view)
}

// handleLinkQR serves a QR code for the event's respond URL
func (h *Handlers) handleLinkQR(w http.ResponseWriter, r *http.Request) {
	publicID := chi.URLParam(r, "publicID")
	target := fmt.Sprintf("http://%s/e/%s", r.Host, url.PathEscape(publicID))

	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		h.Log.Error("qr encode failed", "publicId", publicID, "error", err)
		http.Error(w, "failed to generate QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// describeError extracts the user-facing message and any HTTP status. The
// full error text is kept so a transport failure still names its cause.
func describeError(err error) (string, int) {
	var appErr *apperrors.Error
	if stderrors.As(err, &appErr) {
		return appErr.Error(), appErr.Status
	}
	return err.Error(), 0
}
