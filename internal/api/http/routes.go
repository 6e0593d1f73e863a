package httpapi

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-ensemble/internal/common"
	"github.com/i474232898/weather-ensemble/internal/store"
	"github.com/i474232898/weather-ensemble/internal/weather"
)

var validate = validator.New()

// WeatherService is the part of weather.Service the API drives.
type WeatherService interface {
	Latest() (weather.CycleResult, error)
	Refresh(ctx context.Context) (weather.CycleResult, error)
	Location() weather.Location
	SetLocation(loc weather.Location)
}

// CycleHistory looks up recent cycles by ID.
type CycleHistory interface {
	Get(id uuid.UUID) (weather.CycleResult, error)
}

// SettingsController holds the active settings and reschedules auto-refresh
// when they change.
type SettingsController interface {
	Settings() weather.Settings
	Apply(settings weather.Settings) error
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service WeatherService, history CycleHistory, settings SettingsController) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather", func(c *fiber.Ctx) error {
		result, err := latest(service)
		if err != nil {
			return err
		}

		status := fiber.StatusOK
		if result.Unavailable {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(weatherResponse{
			CycleResult: result,
			Display:     present(result.Consensus, settings.Settings()),
		})
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		result, err := latest(service)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"cycleId": result.ID,
			"hourly":  result.Hourly,
			"daily":   result.Daily,
		})
	})

	v1.Get("/weather/alerts", func(c *fiber.Ctx) error {
		result, err := latest(service)
		if err != nil {
			return err
		}
		if common.EqualFoldAny(c.Query("severe"), "true", "1", "yes") {
			return c.JSON(fiber.Map{"cycleId": result.ID, "alerts": result.Alerts.Severe})
		}
		return c.JSON(fiber.Map{"cycleId": result.ID, "alerts": result.Alerts.All})
	})

	v1.Get("/weather/advice", func(c *fiber.Ctx) error {
		result, err := latest(service)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"cycleId":    result.ID,
			"tips":       result.Tips,
			"airQuality": result.AirQuality,
		})
	})

	v1.Get("/cycles/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid cycle id")
		}
		result, err := history.Get(id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "cycle not found or expired")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch cycle")
		}
		return c.JSON(result)
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		result, err := service.Refresh(c.UserContext())
		switch {
		case err == nil:
			return c.JSON(result)
		case errors.Is(err, weather.ErrCycleInProgress):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case errors.Is(err, weather.ErrNoProvidersAvailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(result)
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "refresh failed")
		}
	})

	v1.Get("/settings", func(c *fiber.Ctx) error {
		return c.JSON(settings.Settings())
	})

	v1.Put("/settings", func(c *fiber.Ctx) error {
		var req weather.Settings
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := settings.Apply(req); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to apply settings")
		}
		return c.JSON(settings.Settings())
	})

	v1.Get("/location", func(c *fiber.Ctx) error {
		return c.JSON(service.Location())
	})

	v1.Put("/location", func(c *fiber.Ctx) error {
		var req locationRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		loc := req.toLocation()
		service.SetLocation(loc)
		return c.JSON(loc)
	})
}

func latest(service WeatherService) (weather.CycleResult, error) {
	result, err := service.Latest()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return weather.CycleResult{}, fiber.NewError(fiber.StatusNotFound, "no refresh cycle has completed yet")
		}
		return weather.CycleResult{}, fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
	return result, nil
}

type weatherResponse struct {
	weather.CycleResult
	Display *displayReading `json:"display"`
}

// locationRequest uses pointers so a missing coordinate is rejected rather
// than read as 0.
type locationRequest struct {
	Lat        *float64 `json:"lat" validate:"required,gte=-90,lte=90"`
	Lon        *float64 `json:"lon" validate:"required,gte=-180,lte=180"`
	RegionCode string   `json:"regionCode" validate:"omitempty,len=2,alpha"`
}

func (r locationRequest) toLocation() weather.Location {
	return weather.Location{
		Coordinates: weather.Coordinates{Lat: *r.Lat, Lon: *r.Lon},
		RegionCode:  common.UpperTrim(r.RegionCode),
	}
}
