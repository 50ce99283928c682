package orders

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string) error
	SetHeader(key, value string)
	GetAdminToken() string
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers admin order step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &orderSteps{tc: tc}

	ctx.Step(`^I am an operator with the admin token$`, steps.useAdminToken)
	ctx.Step(`^I request the order status table$`, steps.requestStatusTable)
	ctx.Step(`^status "([^"]*)" should allow "([^"]*)"$`, steps.statusShouldAllow)
	ctx.Step(`^status "([^"]*)" should be terminal$`, steps.statusShouldBeTerminal)
}

type orderSteps struct {
	tc TestContext
}

func (s *orderSteps) useAdminToken(ctx context.Context) error {
	token := s.tc.GetAdminToken()
	if token == "" {
		return fmt.Errorf("E2E_ADMIN_TOKEN is not set")
	}
	s.tc.SetHeader("X-Admin-Token", token)
	return nil
}

func (s *orderSteps) requestStatusTable(ctx context.Context) error {
	return s.tc.GET("/admin/orders/statuses")
}

func (s *orderSteps) entry(status string) (map[string]any, error) {
	raw, err := s.tc.GetResponseField("statuses")
	if err != nil {
		return nil, err
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("statuses is not a list")
	}
	for _, item := range list {
		e, ok := item.(map[string]any)
		if ok && e["status"] == status {
			return e, nil
		}
	}
	return nil, fmt.Errorf("status %s missing from table", status)
}

func (s *orderSteps) statusShouldAllow(ctx context.Context, status, target string) error {
	e, err := s.entry(status)
	if err != nil {
		return err
	}
	next, _ := e["transitions"].([]any)
	for _, n := range next {
		if n == target {
			return nil
		}
	}
	return fmt.Errorf("expected %s -> %s to be allowed, got %v", status, target, next)
}

func (s *orderSteps) statusShouldBeTerminal(ctx context.Context, status string) error {
	e, err := s.entry(status)
	if err != nil {
		return err
	}
	if next, _ := e["transitions"].([]any); len(next) > 0 {
		return fmt.Errorf("expected %s to be terminal, got %v", status, next)
	}
	return nil
}
