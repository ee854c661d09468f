package handler

import (
	"net/http"

	"github.com/screwyprof/vesting/pkg/httpkit"
	"github.com/screwyprof/vesting/vesting"
	"github.com/screwyprof/vesting/web/api"
	"github.com/screwyprof/vesting/web/handler/bind"
)

const BalanceRoute = http.MethodGet + " " + "/balances/{address}"

type Balances struct {
	finder BalanceFinder
}

func NewBalances(finder BalanceFinder) *Balances {
	return &Balances{finder: finder}
}

func (h *Balances) AddRoutes(m *http.ServeMux) {
	m.Handle(BalanceRoute, httpkit.HandlerFunc(h.Balance))
}

func (h *Balances) Balance(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	addr := vesting.Address(r.PathValue("address"))

	amount, err := h.finder.Balance(r.Context(), addr)
	if err != nil {
		return httpkit.JsonError(api.Wrap(err))
	}
	return httpkit.JSON(bind.GetBalanceResponse(addr, amount))
}
