package app

import (
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/swapper/app/telemetry"
)

type invariantRoute struct {
	module string
	route  string
	check  sdk.Invariant
}

// invariantRegistry collects module invariants in registration order and runs
// them before each commit.
type invariantRegistry struct {
	routes []invariantRoute
}

var _ sdk.InvariantRegistry = (*invariantRegistry)(nil)

func (r *invariantRegistry) RegisterRoute(moduleName, route string, invar sdk.Invariant) {
	r.routes = append(r.routes, invariantRoute{module: moduleName, route: route, check: invar})
}

// assertAll stops at the first broken route.
func (r *invariantRegistry) assertAll(ctx sdk.Context) (string, bool) {
	for _, ir := range r.routes {
		spanCtx, span := telemetry.StartModuleSpan(ctx.Context(), ir.module, "invariant."+ir.route)
		msg, broken := ir.check(ctx.WithContext(spanCtx))
		telemetry.SetSpanStatus(span, !broken, ir.route)
		span.End()
		if broken {
			return msg, true
		}
	}
	return "", false
}

// Routes lists the registered invariants as module/route.
func (r *invariantRegistry) Routes() []string {
	names := make([]string, 0, len(r.routes))
	for _, ir := range r.routes {
		names = append(names, ir.module+"/"+ir.route)
	}
	return names
}
