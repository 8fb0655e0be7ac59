package validators

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title string `json:"title" validate:"required,min=3"`
	Kind  string `json:"kind" validate:"omitempty,oneof=video lab"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Count int    `json:"count" validate:"gte=0,lte=10"`
}

func TestStructErrorsUsesJSONNames(t *testing.T) {
	errs := StructErrors(&sample{Title: "ab", Kind: "movie", Color: "blue", Count: 11})

	require.Len(t, errs, 4)
	assert.Equal(t, "title must be at least 3 characters long!", errs["title"])
	assert.Equal(t, "kind must be one of: video, lab!", errs["kind"])
	assert.Equal(t, "color must be a hex color!", errs["color"])
	assert.Equal(t, "count must be less than or equal to 10!", errs["count"])
}

func TestStructErrorsNilWhenValid(t *testing.T) {
	assert.Nil(t, StructErrors(&sample{Title: "Intro", Kind: "lab", Color: "#112233"}))
}

func TestIDParam(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", IDParam("id", "itemID", "Item"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	cases := map[string]int{
		"/items/12":  fiber.StatusOK,
		"/items/abc": fiber.StatusBadRequest,
		"/items/0":   fiber.StatusBadRequest,
		"/items/-4":  fiber.StatusBadRequest,
	}
	for path, want := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		_, _ = io.ReadAll(resp.Body)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}
