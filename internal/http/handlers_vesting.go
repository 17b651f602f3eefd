package http

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"vestadmin/internal/core"
	applog "vestadmin/internal/log"
	"vestadmin/internal/services"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.dashboard.Load(r.Context(), s.now())
	if err != nil {
		s.writeServiceError(w, r, err, applog.OpRead, nil)
		return
	}
	NewJSONResponse().Body(newDashboardView(d, s.network, s.location)).Write(w)
}

// handleNextVesting answers for any address. Addresses outside the six
// configured contracts get bucket "unknown" and a null nextVesting.
func (s *Server) handleNextVesting(w http.ResponseWriter, r *http.Request) {
	address := sanitizeInput(r.URL.Query().Get("address"))
	if address == "" {
		BadRequestError("address is required").Write(w)
		return
	}

	next := s.book.NextVestingInfo(r.Context(), address, s.now())
	NewJSONResponse().Body(nextVestingView{
		Address:     address,
		Bucket:      s.book.Classify(address).String(),
		NextVesting: newNextVestingView(next, s.location),
	}).Write(w)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	bucket, err := core.ParseBucket(r.PathValue("bucket"))
	if err != nil {
		NotFoundError(err.Error()).Write(w)
		return
	}

	schedule, err := s.book.ScheduleFor(bucket)
	if err != nil {
		NotFoundError(err.Error()).Write(w)
		return
	}
	address, _ := s.book.Address(bucket)

	NewJSONResponse().Body(newScheduleView(bucket, address, schedule, s.network, s.location)).Write(w)
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ReleaseRequest
	if err := DecodeJSONBody(r, &req); err != nil {
		BadRequestError("contract is required").Write(w)
		return
	}
	req.Contract = sanitizeInput(req.Contract)
	if req.Contract == "" {
		BadRequestError("contract is required").Write(w)
		return
	}

	sub, err := s.releases.Release(ctx, req.Contract)
	if err != nil {
		fields := applog.NewFields().WithContract(req.Contract, s.book.Classify(req.Contract).String())
		s.writeServiceError(w, r, err, applog.OpRelease, fields)
		return
	}
	atomic.AddInt64(&s.releasesSubmitted, 1)

	NewJSONResponse().Body(releaseView{
		Message:     "release submitted",
		ID:          sub.ID,
		Contract:    sub.Contract,
		Bucket:      sub.Bucket.String(),
		TxHash:      sub.TxHash,
		TxURL:       txURL(s.network, sub.TxHash),
		ChainID:     sub.ChainID,
		SubmittedAt: sub.SubmittedAt.In(s.location).Format(time.RFC3339),
	}).Write(w)
}

// handleNetwork reports the expected network. With ?chainId it also says
// whether a wallet on that chain must switch.
func (s *Server) handleNetwork(w http.ResponseWriter, r *http.Request) {
	chainID, ok, err := ParseChainID(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	view := networkView{
		ChainID:     s.network.ChainID,
		Name:        s.network.Name,
		RPCURL:      s.network.RPCURL,
		ExplorerURL: s.network.ExplorerURL,
		Testnet:     s.network.Testnet,
	}
	if ok {
		correct := s.network.IsCorrectNetwork(chainID)
		shouldSwitch := !correct
		view.ConnectedChainID = &chainID
		view.IsCorrectNetwork = &correct
		view.ShouldSwitch = &shouldSwitch
	}
	NewJSONResponse().Body(view).Write(w)
}

// writeServiceError maps service sentinels onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, operation string, fields applog.LogFields) {
	ctx := r.Context()

	switch {
	case errors.Is(err, core.ErrUnrecognizedAddress):
		BadRequestError(core.ErrUnrecognizedAddress.Error()).Write(w)
	case errors.Is(err, services.ErrWrongNetwork):
		ErrorResponse(http.StatusConflict, err.Error()).Write(w)
	case errors.Is(err, services.ErrNothingToRelease):
		ErrorResponse(http.StatusConflict, services.ErrNothingToRelease.Error()).Write(w)
	case errors.Is(err, services.ErrReleaseRejected):
		NewJSONResponse().Status(http.StatusBadGateway).
			Body(ErrorBody{Error: services.ErrReleaseRejected.Error(), Kind: "cancelled"}).Write(w)
	case errors.Is(err, services.ErrReleaseFailed):
		applog.LogError(ctx, "Release transaction failed", err, operation, fields)
		NewJSONResponse().Status(http.StatusBadGateway).
			Body(ErrorBody{Error: err.Error(), Kind: "failed"}).Write(w)
	case errors.Is(err, services.ErrReleaseUnavailable):
		ErrorResponse(http.StatusServiceUnavailable, services.ErrReleaseUnavailable.Error()).Write(w)
	case errors.Is(err, services.ErrVestingDataUnavailable):
		applog.LogError(ctx, "Vesting data unavailable", err, operation, fields)
		ErrorResponse(http.StatusBadGateway, services.ErrVestingDataUnavailable.Error()).Write(w)
	default:
		applog.LogError(ctx, "Unexpected service error", err, operation, fields)
		InternalServerError("internal error").Write(w)
	}
}
