package routers

import (
	"testing"

	"cyberlearn/models"
	"cyberlearn/testutil"
	"cyberlearn/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogAccessControl(t *testing.T) {
	app, db := setupApp(t)
	_, studentToken := testutil.CreateUser(t, db, models.RoleStudent)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)

	code, _ := call(t, app, "GET", "/api/phases", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = call(t, app, "POST", "/api/phases", studentToken, map[string]string{"title": "Foundations"})
	assert.Equal(t, fiber.StatusForbidden, code)

	code, env := call(t, app, "POST", "/api/phases", adminToken, map[string]string{"title": "ab"})
	require.Equal(t, fiber.StatusBadRequest, code)
	var errs map[string]string
	decode(t, env, &errs)
	assert.Contains(t, errs, "title")

	code, _ = call(t, app, "GET", "/api/phases/abc", studentToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = call(t, app, "GET", "/api/phases/999", studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestPhaseLifecycle(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	_, studentToken := testutil.CreateUser(t, db, models.RoleStudent)

	code, env := call(t, app, "POST", "/api/phases", adminToken, map[string]string{"title": "Foundations"})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var phase models.Phase
	decode(t, env, &phase)
	assert.Equal(t, 1, phase.Order)
	assert.Equal(t, "#3B82F6", phase.Color)
	assert.Equal(t, "shield", phase.Icon)

	code, env = call(t, app, "POST", "/api/phases", adminToken, map[string]interface{}{"title": "Offense", "isActive": false})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var hidden models.Phase
	decode(t, env, &hidden)
	assert.Equal(t, 2, hidden.Order)

	var listed []models.Phase
	_, env = call(t, app, "GET", "/api/phases", studentToken, nil)
	decode(t, env, &listed)
	assert.Len(t, listed, 1)

	_, env = call(t, app, "GET", "/api/phases?includeInactive=true", studentToken, nil)
	decode(t, env, &listed)
	assert.Len(t, listed, 1, "includeInactive is ignored for students")

	_, env = call(t, app, "GET", "/api/phases?includeInactive=true", adminToken, nil)
	decode(t, env, &listed)
	assert.Len(t, listed, 2)

	code, env = call(t, app, "POST", "/api/modules", adminToken, map[string]interface{}{
		"phaseId": phase.ID,
		"title":   "Networking Basics",
		"topics":  []string{"tcp", "udp"},
	})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var module models.Module
	decode(t, env, &module)
	assert.Equal(t, 1, module.Order)
	assert.Equal(t, models.DifficultyBeginner, module.Difficulty)

	code, _ = call(t, app, "POST", "/api/modules", adminToken, map[string]interface{}{"phaseId": 999, "title": "Orphan"})
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = call(t, app, "DELETE", "/api/phases/"+itoa(phase.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusConflict, code)

	_, env = call(t, app, "GET", "/api/phases?withModules=true", studentToken, nil)
	decode(t, env, &listed)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Modules, 1)
	assert.Equal(t, "Networking Basics", listed[0].Modules[0].Title)

	code, _ = call(t, app, "DELETE", "/api/phases/"+itoa(hidden.ID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, app, "GET", "/api/phases/"+itoa(hidden.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, env = call(t, app, "PUT", "/api/phases/"+itoa(phase.ID), adminToken, map[string]string{"title": "Foundations 101"})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	decode(t, env, &phase)
	assert.Equal(t, "Foundations 101", phase.Title)
}

func TestReorderPhases(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	first := testutil.CreatePhase(t, db, "First", 1)
	second := testutil.CreatePhase(t, db, "Second", 2)

	code, env := call(t, app, "PUT", "/api/phases/reorder", adminToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": first.ID, "order": 2},
			{"id": second.ID, "order": 1},
		},
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)

	var phases []models.Phase
	decode(t, env, &phases)
	require.Len(t, phases, 2)
	assert.Equal(t, second.ID, phases[0].ID)
	assert.Equal(t, first.ID, phases[1].ID)

	code, _ = call(t, app, "PUT", "/api/phases/reorder", adminToken, map[string]interface{}{
		"items": []map[string]interface{}{{"id": 999, "order": 1}},
	})
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = call(t, app, "PUT", "/api/phases/reorder", adminToken, map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": first.ID, "order": 1},
			{"id": first.ID, "order": 2},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestContentLifecycle(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	_, studentToken := testutil.CreateUser(t, db, models.RoleStudent)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Web Security", 1)

	code, env := call(t, app, "POST", "/api/content", adminToken, map[string]interface{}{
		"moduleId": module.ID,
		"type":     "video",
		"title":    "What is XSS",
		"section":  "Intro",
		"duration": 30,
		"url":      "https://videos.example.com/xss",
	})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var video models.Content
	decode(t, env, &video)
	assert.Equal(t, 1, video.Order)

	code, env = call(t, app, "POST", "/api/content", adminToken, map[string]interface{}{
		"moduleId": module.ID,
		"type":     "game",
		"title":    "XSS Quiz",
		"section":  "Practice",
		"duration": 45,
		"game":     map[string]interface{}{"passingScore": 60, "config": map[string]int{"questions": 10}},
	})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var game models.Content
	decode(t, env, &game)
	require.NotNil(t, game.Game)
	assert.Equal(t, models.GameTypeQuiz, game.Game.GameType)
	assert.Equal(t, 100, game.Game.MaxScore)
	assert.Equal(t, 60, game.Game.PassingScore)

	code, _ = call(t, app, "POST", "/api/content", adminToken, map[string]interface{}{
		"moduleId": module.ID,
		"type":     "video",
		"title":    "Mismatched",
		"section":  "Intro",
		"lab":      map[string]string{"environment": "kali"},
	})
	assert.Equal(t, fiber.StatusBadRequest, code)

	// module totals follow content writes
	_, env = call(t, app, "GET", "/api/modules/"+itoa(module.ID), studentToken, nil)
	var refreshed models.Module
	decode(t, env, &refreshed)
	assert.Equal(t, 2, refreshed.TotalContent)
	assert.Equal(t, 2, refreshed.EstimatedHours)
	assert.Equal(t, []uint{video.ID}, refreshed.Content.Data().Videos)
	assert.Equal(t, []uint{game.ID}, refreshed.Content.Data().Games)

	code, env = call(t, app, "GET", "/api/content?page=1&limit=1", studentToken, nil)
	require.Equal(t, fiber.StatusOK, code)
	var page struct {
		Items      []models.Content     `json:"items"`
		Pagination utils.PaginationMeta `json:"pagination"`
	}
	decode(t, env, &page)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Pages)

	_, env = call(t, app, "GET", "/api/content/module/"+itoa(module.ID)+"/grouped", studentToken, nil)
	var groups []utils.SectionGroup
	decode(t, env, &groups)
	require.Len(t, groups, 2)
	assert.Equal(t, "Intro", groups[0].Section)
	assert.Equal(t, 30, groups[0].TotalDuration)

	_, env = call(t, app, "GET", "/api/content/type/game", studentToken, nil)
	var games []models.Content
	decode(t, env, &games)
	assert.Len(t, games, 1)

	code, _ = call(t, app, "GET", "/api/content/type/podcast", studentToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = call(t, app, "DELETE", "/api/content/"+itoa(video.ID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, code)

	_, env = call(t, app, "GET", "/api/content/module/"+itoa(module.ID), studentToken, nil)
	var active []models.Content
	decode(t, env, &active)
	require.Len(t, active, 1)
	assert.Equal(t, game.ID, active[0].ID)

	code, _ = call(t, app, "GET", "/api/content/"+itoa(video.ID), studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = call(t, app, "GET", "/api/content/"+itoa(video.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, code)

	code, _ = call(t, app, "DELETE", "/api/content/"+itoa(video.ID)+"/permanent", adminToken, nil)
	require.Equal(t, fiber.StatusOK, code)
	code, _ = call(t, app, "GET", "/api/content/"+itoa(video.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestReorderContentMovesSections(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Crypto", 1)
	a := testutil.CreateContent(t, db, module.ID, models.ContentTypeVideo, "Intro", 1, 10)
	b := testutil.CreateContent(t, db, module.ID, models.ContentTypeDocument, "Intro", 2, 5)

	code, env := call(t, app, "PUT", "/api/content/reorder", adminToken, map[string]interface{}{
		"moduleId": module.ID,
		"items": []map[string]interface{}{
			{"id": b.ID, "order": 1, "section": "Basics"},
			{"id": a.ID, "order": 2},
		},
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)

	var items []models.Content
	decode(t, env, &items)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, "Basics", items[0].Section)
	assert.Equal(t, "Intro", items[1].Section)

	other := testutil.CreateModule(t, db, phase.ID, "Other", 2)
	stray := testutil.CreateContent(t, db, other.ID, models.ContentTypeVideo, "Intro", 1, 10)
	code, _ = call(t, app, "PUT", "/api/content/reorder", adminToken, map[string]interface{}{
		"moduleId": module.ID,
		"items":    []map[string]interface{}{{"id": stray.ID, "order": 1}},
	})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestDeleteModuleHidesContent(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	_, studentToken := testutil.CreateUser(t, db, models.RoleStudent)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Forensics", 1)
	content := testutil.CreateContent(t, db, module.ID, models.ContentTypeVideo, "Intro", 1, 10)

	code, _ := call(t, app, "DELETE", "/api/modules/"+itoa(module.ID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, code)

	var stored models.Content
	require.NoError(t, db.First(&stored, content.ID).Error)
	assert.False(t, stored.IsActive)

	code, _ = call(t, app, "POST", "/api/enrollments", studentToken, map[string]interface{}{"moduleId": module.ID})
	assert.Equal(t, fiber.StatusNotFound, code)
}
