package controllers

import (
	"net/http"

	helper "github.com/ablochha/multiwaycut/pkg/http/router/routerhelper"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

type multiwayCutAPI struct {
	service MultiwayCutService
	log     *zap.Logger
}

func New(service MultiwayCutService, log *zap.Logger) *multiwayCutAPI {
	return &multiwayCutAPI{
		service: service,
		log:     log,
	}
}

func (api *multiwayCutAPI) Routes(group *helper.RouteGroup) {
	group.POST("/multiwayCut", api.multiwayCut)
	group.GET("/strategies", api.strategies)
}

// multiwayCut
//
//	@Summary		approximate a minimum multiway cut
//	@Description	runs the requested strategies on the network and returns the cheapest labelling found
//	@Tags			multiwaycut
//	@Accept			json
//	@Produce		json
//	@Param			body	body		multiwayCutRequest	true	"network, optional fractional solution and strategies"
//	@Success		200		{object}	multiwayCutResponse
//	@Failure		400		{object}	errorResponse
//	@Failure		503		{object}	errorResponse
//	@Failure		500		{object}	errorResponse
//	@Router			/multiwayCut [post]
func (api *multiwayCutAPI) multiwayCut(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	var request multiwayCutRequest
	if err := api.readJSON(w, r, &request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}
	if err := validateRequest(request); err != nil {
		api.BadRequestResponse(w, r, err)
		return
	}

	report, err := api.service.Solve(r.Context(), request.ToProblem(), nil)
	if err != nil {
		api.getStatusCode(w, r, err)
		return
	}

	headers := make(http.Header)
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": NewMultiwayCutResponse(report)}, headers); err != nil {
		api.ServerErrorResponse(w, r, err)
		return
	}
}

// strategies
//
//	@Summary	list strategy names
//	@Tags		multiwaycut
//	@Produce	json
//	@Success	200	{object}	strategiesResponse
//	@Router		/strategies [get]
func (api *multiwayCutAPI) strategies(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	if err := api.writeJSON(w, http.StatusOK, envelope{"data": strategiesResponse{Strategies: api.service.Strategies()}}, nil); err != nil {
		api.ServerErrorResponse(w, r, err)
	}
}
