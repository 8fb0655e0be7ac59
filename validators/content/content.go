package contentValidator

import (
	"bytes"
	"encoding/json"
	"strings"

	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/validators"

	"github.com/gofiber/fiber/v2"
)

// LabDetail fields left out of a request keep their stored value
type LabDetail struct {
	Environment *string  `json:"environment" validate:"omitempty,max=100"`
	Tools       []string `json:"tools" validate:"omitempty,dive,max=100"`
	Steps       []string `json:"steps" validate:"omitempty,dive,max=2000"`
	Hints       []string `json:"hints" validate:"omitempty,dive,max=1000"`
	MaxAttempts *int     `json:"maxAttempts" validate:"omitempty,gte=0"`
}

// GameDetail fields left out of a request keep their stored value
type GameDetail struct {
	GameType     *string         `json:"gameType" validate:"omitempty,oneof=quiz ctf puzzle simulation"`
	MaxScore     *int            `json:"maxScore" validate:"omitempty,gte=1"`
	PassingScore *int            `json:"passingScore" validate:"omitempty,gte=0"`
	TimeLimit    *int            `json:"timeLimit" validate:"omitempty,gte=0"`
	Config       json.RawMessage `json:"config"`
}

type CreateContentRequest struct {
	ModuleID     uint        `json:"moduleId" validate:"required"`
	Type         string      `json:"type" validate:"required,oneof=video lab game document"`
	Title        string      `json:"title" validate:"required,min=3,max=200"`
	Description  string      `json:"description" validate:"max=5000"`
	Section      string      `json:"section" validate:"required,max=100"`
	Order        *int        `json:"order" validate:"omitempty,gte=1"`
	Duration     int         `json:"duration" validate:"gte=0"`
	URL          string      `json:"url" validate:"omitempty,url"`
	Instructions string      `json:"instructions"`
	Resources    []string    `json:"resources" validate:"dive,max=500"`
	IsActive     *bool       `json:"isActive"`
	Lab          *LabDetail  `json:"lab"`
	Game         *GameDetail `json:"game"`
}

type UpdateContentRequest struct {
	ModuleID     *uint       `json:"moduleId" validate:"omitempty,gte=1"`
	Type         *string     `json:"type" validate:"omitempty,oneof=video lab game document"`
	Title        *string     `json:"title" validate:"omitempty,min=3,max=200"`
	Description  *string     `json:"description" validate:"omitempty,max=5000"`
	Section      *string     `json:"section" validate:"omitempty,min=1,max=100"`
	Order        *int        `json:"order" validate:"omitempty,gte=1"`
	Duration     *int        `json:"duration" validate:"omitempty,gte=0"`
	URL          *string     `json:"url" validate:"omitempty,url"`
	Instructions *string     `json:"instructions"`
	Resources    []string    `json:"resources" validate:"omitempty,dive,max=500"`
	IsActive     *bool       `json:"isActive"`
	Lab          *LabDetail  `json:"lab"`
	Game         *GameDetail `json:"game"`
}

type ReorderContentRequest struct {
	ModuleID uint                   `json:"moduleId" validate:"required"`
	Items    []validators.OrderItem `json:"items" validate:"required,min=1,dive"`
}

// ContentID parses :id into locals "contentId"
func ContentID() fiber.Handler {
	return validators.IDParam("id", "contentId", "content")
}

// ModuleParam parses :moduleId into locals "moduleId"
func ModuleParam() fiber.Handler {
	return validators.IDParam("moduleId", "moduleId", "module")
}

// ContentType validates the :type route param
func ContentType() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := strings.ToLower(strings.TrimSpace(c.Params("type")))
		if !models.IsValidContentType(kind) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid content type! Use one of: video, lab, game, document", nil)
		}
		c.Locals("contentType", kind)
		return c.Next()
	}
}

// List validates the optional filters of the content list
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if kind := strings.TrimSpace(c.Query("type")); kind != "" && !models.IsValidContentType(kind) {
			return middleware.ValidationErrorResponse(c, map[string]string{"type": "type must be one of: video, lab, game, document!"})
		}
		return c.Next()
	}
}

// gameErrors checks the game detail on its own. fallbackMax is the maxScore assumed when the request
// omits it; nil skips the passing score check, the stored maxScore is then checked on save.
func gameErrors(game *GameDetail, fallbackMax *int) map[string]string {
	errors := make(map[string]string)
	if game == nil {
		return errors
	}
	if len(game.Config) > 0 {
		trimmed := bytes.TrimSpace(game.Config)
		if !bytes.Equal(trimmed, []byte("null")) && (len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed)) {
			errors["game.config"] = "game.config must be a JSON object!"
		}
	}
	maxScore := fallbackMax
	if game.MaxScore != nil {
		maxScore = game.MaxScore
	}
	if game.PassingScore != nil && maxScore != nil && *game.PassingScore > *maxScore {
		errors["game.passingScore"] = "game.passingScore must not exceed maxScore!"
	}
	return errors
}

func CreateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateContentRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Section = strings.TrimSpace(reqData.Section)

		defaultMax := models.DefaultGameMaxScore
		errors := gameErrors(reqData.Game, &defaultMax)
		if len(reqData.Title) < 3 {
			errors["title"] = "title must be at least 3 characters long!"
		}
		if reqData.Section == "" {
			errors["section"] = "section is required!"
		}
		if reqData.Lab != nil && reqData.Type != models.ContentTypeLab {
			errors["lab"] = "lab details are only allowed on lab content!"
		}
		if reqData.Game != nil && reqData.Type != models.ContentTypeGame {
			errors["game"] = "game details are only allowed on game content!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

func UpdateContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateContentRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		validators.TrimPtr(reqData.Title)
		validators.TrimPtr(reqData.Section)

		errors := gameErrors(reqData.Game, nil)
		if reqData.Title != nil && len(*reqData.Title) < 3 {
			errors["title"] = "title must be at least 3 characters long!"
		}
		if reqData.Section != nil && *reqData.Section == "" {
			errors["section"] = "section is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedContent", reqData)
		return c.Next()
	}
}

func ReorderContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderContentRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		for i := range reqData.Items {
			reqData.Items[i].Section = strings.TrimSpace(reqData.Items[i].Section)
		}
		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}
