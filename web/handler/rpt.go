package handler

import (
	"net/http"

	"github.com/screwyprof/vesting/pkg/httpkit"
	"github.com/screwyprof/vesting/web/api"
	"github.com/screwyprof/vesting/web/handler/bind"
)

const (
	SplitterStatusRoute    = http.MethodGet + " " + "/rpt/status"
	SplitterConfigureRoute = http.MethodPost + " " + "/rpt/configure"
	SplitterVestRoute      = http.MethodPost + " " + "/rpt/vest"
	SplitterOwnerRoute     = http.MethodPost + " " + "/rpt/owner"
)

type Rpt struct {
	splitter Splitter
}

func NewRpt(splitter Splitter) *Rpt {
	return &Rpt{splitter: splitter}
}

func (h *Rpt) AddRoutes(m *http.ServeMux) {
	m.Handle(SplitterStatusRoute, httpkit.HandlerFunc(h.Status))
	m.Handle(SplitterConfigureRoute, httpkit.HandlerFunc(h.Configure))
	m.Handle(SplitterVestRoute, httpkit.HandlerFunc(h.Vest))
	m.Handle(SplitterOwnerRoute, httpkit.HandlerFunc(h.SetOwner))
}

func (h *Rpt) Status(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	state, err := h.splitter.SplitterStatus(r.Context())
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(state)
}

func (h *Rpt) Configure(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}
	req, err := bind.Body[api.SplitConfigureRequest](r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	if err := h.splitter.ConfigureSplit(r.Context(), sender, req.Config); err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return h.Status(w, r)
}

// Vest needs no sender: anyone may trigger it.
func (h *Rpt) Vest(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	v, err := h.splitter.Vest(r.Context())
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(v)
}

func (h *Rpt) SetOwner(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}
	req, err := bind.Body[api.SetOwnerRequest](r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	if err := h.splitter.SetSplitterOwner(r.Context(), sender, req.NewOwner); err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return h.Status(w, r)
}
