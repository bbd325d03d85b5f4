package routes

import (
	"errors"
	"net/http"

	"github.com/recera/clueso-site/internal/submit"
	"github.com/recera/clueso-site/pkg/live"
	"github.com/recera/clueso-site/pkg/server"
)

// apiHandlers accept the contact, demo and signup forms. Every response body is a
// toast, failures included, so the client can show it as is.
type apiHandlers struct {
	service *submit.Service
}

func (a *apiHandlers) contact(ctx server.Ctx) (any, error) {
	var req submit.ContactRequest
	return a.handle(ctx, &req)
}

func (a *apiHandlers) demo(ctx server.Ctx) (any, error) {
	var req submit.DemoRequest
	return a.handle(ctx, &req)
}

func (a *apiHandlers) signup(ctx server.Ctx) (any, error) {
	var req submit.SignupRequest
	return a.handle(ctx, &req)
}

func (a *apiHandlers) handle(ctx server.Ctx, req submit.Request) (any, error) {
	if ctx.Method() != http.MethodPost {
		ctx.SetHeader("Allow", http.MethodPost)
		return nil, server.MethodNotAllowed(ctx.Method())
	}

	if err := ctx.Bind(req); err != nil {
		var he *server.HTTPError
		if !errors.As(err, &he) {
			return nil, err
		}
		return nil, ctx.JSON(he.Code, live.Toast{
			Title:       "Invalid request",
			Description: "We couldn't read the form. Please try again.",
			Variant:     "destructive",
		})
	}

	toast, err := a.service.Handle(ctx.Context(), req)
	if err != nil {
		return nil, ctx.JSON(statusFor(err), toast)
	}
	return toast, nil
}

// statusFor maps a submission failure to its response status
func statusFor(err error) int {
	var ve *submit.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, submit.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, submit.ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, submit.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
