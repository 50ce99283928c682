package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

const localLayout = "2006-01-02T15:04"

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers checkout form step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &checkoutSteps{tc: tc, form: map[string]any{}}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		steps.form = map[string]any{}
		return ctx, nil
	})

	ctx.Step(`^a checkout form for "([^"]*)" "([^"]*)" with phone "([^"]*)" and email "([^"]*)"$`, steps.fillContact)
	ctx.Step(`^the address is "([^"]*)"$`, steps.setAddress)
	ctx.Step(`^the order is picked up at the branch$`, steps.setPickup)
	ctx.Step(`^delivery is requested tomorrow at (\d+):00 in "([^"]*)"$`, steps.deliverTomorrow)
	ctx.Step(`^I validate the checkout form$`, steps.validate)
	ctx.Step(`^the field "([^"]*)" should be rejected$`, steps.fieldRejected)
}

type checkoutSteps struct {
	tc   TestContext
	form map[string]any
}

func (s *checkoutSteps) fillContact(ctx context.Context, name, surname, phone, email string) error {
	s.form["name"] = name
	s.form["surname"] = surname
	s.form["phone"] = phone
	s.form["email"] = email
	return nil
}

func (s *checkoutSteps) setAddress(ctx context.Context, address string) error {
	s.form["address"] = address
	return nil
}

func (s *checkoutSteps) setPickup(ctx context.Context) error {
	s.form["pickup"] = true
	return nil
}

func (s *checkoutSteps) deliverTomorrow(ctx context.Context, hour int, timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return err
	}
	tomorrow := time.Now().In(loc).AddDate(0, 0, 1)
	at := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hour, 0, 0, 0, loc)
	s.form["delivery_at"] = at.Format(localLayout)
	return nil
}

func (s *checkoutSteps) validate(ctx context.Context) error {
	return s.tc.POST("/checkout/validate", s.form)
}

func (s *checkoutSteps) fieldRejected(ctx context.Context, field string) error {
	msg, err := s.tc.GetResponseField("fields." + field)
	if err != nil {
		return err
	}
	if fmt.Sprint(msg) == "" {
		return fmt.Errorf("field %s has an empty error message", field)
	}
	return nil
}
