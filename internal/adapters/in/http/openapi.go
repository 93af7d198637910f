package http

import (
	_ "embed"
	"errors"
	"fmt"

	"orderhub/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// OpenAPI returns the parsed and validated API description served by Register.
func OpenAPI() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

// validateRequests checks parameters and bodies of documented routes before any handler
// runs. Routes missing from the document, such as /health, pass through untouched.
func validateRequests(router routers.Router) echo.MiddlewareFunc {
	options := &openapi3filter.Options{AuthenticationFunc: openapi3filter.NoopAuthenticationFunc}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, err := router.FindRoute(req)
			if err != nil {
				return next(c)
			}

			err = openapi3filter.ValidateRequest(req.Context(), &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			if err != nil {
				return requestError(err)
			}
			return next(c)
		}
	}
}

func requestError(err error) error {
	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return errs.NewValueIsInvalidErrorWithCause("request", err)
	}
	switch {
	case reqErr.Parameter != nil:
		return errs.NewValueIsInvalidErrorWithCause(reqErr.Parameter.In+" parameter "+reqErr.Parameter.Name, reqErr)
	case reqErr.RequestBody != nil:
		return errs.NewValueIsInvalidErrorWithCause("request body", reqErr)
	default:
		return errs.NewValueIsInvalidErrorWithCause("request", reqErr)
	}
}
