package handler

import (
	"net/http"

	"github.com/screwyprof/vesting/pkg/httpkit"
	"github.com/screwyprof/vesting/web/api"
	"github.com/screwyprof/vesting/web/handler/bind"
)

const (
	StatusRoute        = http.MethodGet + " " + "/mgmt/status"
	ScheduleRoute      = http.MethodGet + " " + "/mgmt/schedule"
	AccountRoute       = http.MethodGet + " " + "/mgmt/pools/{pool}/accounts/{account}"
	ProgressRoute      = http.MethodGet + " " + "/mgmt/progress"
	ConfigureRoute     = http.MethodPost + " " + "/mgmt/configure"
	AddAccountRoute    = http.MethodPost + " " + "/mgmt/accounts"
	RebindAccountRoute = http.MethodPost + " " + "/mgmt/accounts/address"
	LaunchRoute        = http.MethodPost + " " + "/mgmt/launch"
	ClaimRoute         = http.MethodPost + " " + "/mgmt/claim"
	SetOwnerRoute      = http.MethodPost + " " + "/mgmt/owner"
	DisownRoute        = http.MethodPost + " " + "/mgmt/disown"
)

type Mgmt struct {
	manager Manager
}

func NewMgmt(manager Manager) *Mgmt {
	return &Mgmt{manager: manager}
}

func (h *Mgmt) AddRoutes(m *http.ServeMux) {
	m.Handle(StatusRoute, httpkit.HandlerFunc(h.Status))
	m.Handle(ScheduleRoute, httpkit.HandlerFunc(h.Schedule))
	m.Handle(AccountRoute, httpkit.HandlerFunc(h.Account))
	m.Handle(ProgressRoute, httpkit.HandlerFunc(h.Progress))
	m.Handle(ConfigureRoute, httpkit.HandlerFunc(h.Configure))
	m.Handle(AddAccountRoute, httpkit.HandlerFunc(h.AddAccount))
	m.Handle(RebindAccountRoute, httpkit.HandlerFunc(h.RebindAccount))
	m.Handle(LaunchRoute, httpkit.HandlerFunc(h.Launch))
	m.Handle(ClaimRoute, httpkit.HandlerFunc(h.Claim))
	m.Handle(SetOwnerRoute, httpkit.HandlerFunc(h.SetOwner))
	m.Handle(DisownRoute, httpkit.HandlerFunc(h.Disown))
}

func (h *Mgmt) Status(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	status, err := h.manager.Status(r.Context())
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(status)
}

func (h *Mgmt) Schedule(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	schedule, err := h.manager.Schedule(r.Context())
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(schedule)
}

func (h *Mgmt) Account(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	account, err := h.manager.Account(r.Context(), r.PathValue("pool"), r.PathValue("account"))
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(account)
}

func (h *Mgmt) Progress(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	req, err := bind.GetProgressRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	progress, err := h.manager.Progress(r.Context(), req.Address, req.Time)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(progress)
}

// Configure replaces the schedule and responds with the new status.
func (h *Mgmt) Configure(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}
	req, err := bind.Body[api.ConfigureRequest](r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	if err := h.manager.Configure(r.Context(), sender, req.Schedule); err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return h.Status(w, r)
}

// AddAccount responds with the added account.
func (h *Mgmt) AddAccount(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}
	req, err := bind.Body[api.AddAccountRequest](r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	if err := h.manager.AddAccount(r.Context(), sender, req.PoolName, req.Account); err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return h.account(r, req.PoolName, req.Account.Name)
}

// RebindAccount responds with the rebound account.
func (h *Mgmt) RebindAccount(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}
	req, err := bind.Body[api.RebindAccountRequest](r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	err = h.manager.RebindAccountAddress(r.Context(), sender, req.PoolName, req.AccountName, req.Address)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return h.account(r, req.PoolName, req.AccountName)
}

// Launch responds with the mint transfer.
func (h *Mgmt) Launch(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	mint, err := h.manager.Launch(r.Context(), sender)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(mint)
}

// Claim pays the sender and responds with the claim transfer.
func (h *Mgmt) Claim(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	transfer, err := h.manager.Claim(r.Context(), sender)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(transfer)
}

func (h *Mgmt) SetOwner(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}
	req, err := bind.Body[api.SetOwnerRequest](r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	if err := h.manager.SetOwner(r.Context(), sender, req.NewOwner); err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return h.Status(w, r)
}

func (h *Mgmt) Disown(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	sender, err := bind.Sender(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	if err := h.manager.Disown(r.Context(), sender); err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return h.Status(w, r)
}

func (h *Mgmt) account(r *http.Request, pool, name string) http.HandlerFunc {
	account, err := h.manager.Account(r.Context(), pool, name)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(account)
}
