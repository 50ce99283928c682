package e2e

import (
	"github.com/cucumber/godog"

	"minimarket/e2e/steps/checkout"
	"minimarket/e2e/steps/common"
	"minimarket/e2e/steps/orders"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	checkout.RegisterSteps(ctx, tc)
	orders.RegisterSteps(ctx, tc)
}
