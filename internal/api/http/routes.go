package httpapi

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/instant-weather/internal/home"
	"github.com/i474232898/instant-weather/internal/preferences"
	"github.com/i474232898/instant-weather/internal/weather"
)

var validate = validator.New()

// LocationPublisher accepts device locations.
type LocationPublisher interface {
	Publish(loc weather.Location)
}

// UnitStore reads and writes the temperature unit preference.
type UnitStore interface {
	preferences.Reader
	SetTemperatureUnit(ctx context.Context, unit string) error
}

// Deps are the collaborators the routes need.
type Deps struct {
	Model     *home.Model
	Locations LocationPublisher
	Units     UnitStore
	Resolver  *preferences.Resolver
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	v1 := app.Group("/api/v1")

	v1.Post("/location", func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid location body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.toLocation()
		deps.Locations.Publish(loc)
		return c.Status(fiber.StatusAccepted).JSON(loc)
	})

	v1.Get("/weather", func(c *fiber.Ctx) error {
		return c.JSON(home.Present(deps.Model.State()))
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		deps.Model.OnPullToRefresh()
		return c.Status(fiber.StatusAccepted).JSON(home.Present(deps.Model.State()))
	})

	v1.Get("/preferences/temperature-unit", func(c *fiber.Ctx) error {
		return c.JSON(unitResponse{Unit: deps.Resolver.DisplayUnit(c.UserContext())})
	})

	v1.Put("/preferences/temperature-unit", func(c *fiber.Ctx) error {
		var req unitRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid unit body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := deps.Units.SetTemperatureUnit(c.UserContext(), req.Unit); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to save temperature unit")
		}
		return c.JSON(unitResponse{Unit: preferences.ResolveDisplayUnit(req.Unit)})
	})
}

// locationRequest is the body of POST /location.
type locationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
}

func (l locationRequest) toLocation() weather.Location {
	return weather.Location{
		Latitude:  *l.Latitude,
		Longitude: *l.Longitude,
	}
}

type unitRequest struct {
	Unit string `json:"unit" validate:"required,oneof=celsius fahrenheit"`
}

type unitResponse struct {
	Unit weather.TemperatureUnit `json:"unit"`
}
