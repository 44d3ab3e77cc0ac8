package handler

import (
	"net/http"

	"ration-be/internal/issue"
	"ration-be/internal/utils"
)

func (h *Handler) CreateIssue(w http.ResponseWriter, r *http.Request) {
	var params issue.CreateParams
	if err := utils.DecodeJSON(r, &params); err != nil {
		writeError(w, r, err)
		return
	}

	is, err := h.Issues.Create(r.Context(), customerID(r), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, is)
}

func (h *Handler) MyIssues(w http.ResponseWriter, r *http.Request) {
	id := customerID(r)
	limit, offset := utils.Pagination(r)

	list, err := h.Issues.List(r.Context(), issue.ListFilter{
		CustomerID: &id,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) ListIssues(w http.ResponseWriter, r *http.Request) {
	limit, offset := utils.Pagination(r)
	filter := issue.ListFilter{
		CustomerID: utils.QueryString(r, "customerId"),
		Limit:      limit,
		Offset:     offset,
	}
	if raw := utils.QueryString(r, "status"); raw != nil {
		st, err := issue.ParseStatus(*raw)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.Status = &st
	}

	list, err := h.Issues.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) SetIssueStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	st, err := issue.ParseStatus(req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}

	is, err := h.Issues.SetStatus(r.Context(), r.PathValue("id"), st)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, is)
}

type respondRequest struct {
	Response string `json:"response"`
}

func (h *Handler) RespondIssue(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	is, err := h.Issues.Respond(r.Context(), r.PathValue("id"), req.Response)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, is)
}
