package httpadapter

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"billboard-escrow/internal/core/domain"
	"billboard-escrow/internal/core/port"
)

type createCampaignRequest struct {
	CampaignID uint64 `json:"campaign_id"`
	Creator    string `json:"creator"`
	Amount     uint64 `json:"amount"`
	Duration   uint64 `json:"duration"`
}

type recipientRequest struct {
	Recipient string `json:"recipient"`
}

type setLiveRequest struct {
	StartTS int64 `json:"start_ts"`
	EndTS   int64 `json:"end_ts"`
}

type actionResponse struct {
	CampaignID uint64       `json:"campaign_id"`
	State      domain.State `json:"state"`
	Released   uint64       `json:"released,omitempty"`
	Recipient  string       `json:"recipient,omitempty"`
	StartTS    int64        `json:"start_ts,omitempty"`
	EndTS      int64        `json:"end_ts,omitempty"`
}

type campaignResponse struct {
	CampaignID uint64       `json:"campaign_id"`
	Sponsor    string       `json:"sponsor"`
	Creator    string       `json:"creator"`
	Amount     uint64       `json:"amount"`
	Duration   uint64       `json:"duration"`
	State      domain.State `json:"state"`
	StartTS    int64        `json:"start_ts"`
	EndTS      int64        `json:"end_ts"`
	Vault      struct {
		Balance    uint64 `json:"balance"`
		Reserve    uint64 `json:"reserve"`
		Releasable uint64 `json:"releasable"`
	} `json:"vault"`
}

type eventResponse struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	CampaignID uint64 `json:"campaign_id"`
	Sponsor    string `json:"sponsor,omitempty"`
	Creator    string `json:"creator,omitempty"`
	Amount     uint64 `json:"amount,omitempty"`
	Duration   uint64 `json:"duration,omitempty"`
	StartTS    int64  `json:"start_ts,omitempty"`
	EndTS      int64  `json:"end_ts,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// handleCreateCampaign creates a campaign and escrows the deposit from the
// authenticated sponsor.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	res, err := h.svc.CreateCampaign(r.Context(), callerFrom(r.Context()), port.CreateCampaignReq{
		CampaignID: req.CampaignID,
		Creator:    req.Creator,
		Amount:     req.Amount,
		Duration:   req.Duration,
	})
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toActionResponse(res))
}

func (h *Handler) handleCreatorAccept(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.CreatorAccept(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toActionResponse(res))
}

func (h *Handler) handleCreatorReject(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	var req recipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	res, err := h.svc.CreatorReject(r.Context(), callerFrom(r.Context()), id, req.Recipient)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toActionResponse(res))
}

func (h *Handler) handleSetVerifying(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.SetVerifying(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toActionResponse(res))
}

func (h *Handler) handleSetLive(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	var req setLiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	res, err := h.svc.SetLive(r.Context(), callerFrom(r.Context()), id, req.StartTS, req.EndTS)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toActionResponse(res))
}

func (h *Handler) handleSetExpired(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.SetExpired(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toActionResponse(res))
}

func (h *Handler) handleHardCancel(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	var req recipientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	res, err := h.svc.HardCancel(r.Context(), callerFrom(r.Context()), id, req.Recipient)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toActionResponse(res))
}

func (h *Handler) handleCreatorClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	res, err := h.svc.CreatorClaim(r.Context(), callerFrom(r.Context()), id)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toActionResponse(res))
}

// handleGetCampaign returns the campaign record and its vault balances.
func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	detail, err := h.svc.GetCampaign(r.Context(), id)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	resp := campaignResponse{
		CampaignID: detail.Campaign.ID,
		Sponsor:    detail.Campaign.Sponsor,
		Creator:    detail.Campaign.Creator,
		Amount:     detail.Campaign.Amount,
		Duration:   detail.Campaign.Duration,
		State:      detail.Campaign.State,
		StartTS:    detail.Campaign.StartTS,
		EndTS:      detail.Campaign.EndTS,
	}
	resp.Vault.Balance = detail.Vault.Balance
	resp.Vault.Reserve = detail.Vault.Reserve
	resp.Vault.Releasable = detail.Vault.Releasable()
	h.writeJSON(w, http.StatusOK, resp)
}

// handleListEvents returns the campaign's event history in commit order.
func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	events, err := h.svc.ListEvents(r.Context(), id)
	if err != nil {
		h.writeUseCaseError(w, r, err)
		return
	}
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			ID:         e.ID,
			Type:       string(e.Type),
			CampaignID: e.CampaignID,
			Sponsor:    e.Sponsor,
			Creator:    e.Creator,
			Amount:     e.Amount,
			Duration:   e.Duration,
			StartTS:    e.StartTS,
			EndTS:      e.EndTS,
			CreatedAt:  e.CreatedAt.Format(time.RFC3339Nano),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

// campaignID parses the {id} path parameter. On failure it writes a 400 and
// returns false.
func campaignID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_campaign_id")
		return 0, false
	}
	return id, true
}

func toActionResponse(res *port.ActionResult) actionResponse {
	return actionResponse{
		CampaignID: res.CampaignID,
		State:      res.State,
		Released:   res.Released,
		Recipient:  res.Recipient,
		StartTS:    res.StartTS,
		EndTS:      res.EndTS,
	}
}
