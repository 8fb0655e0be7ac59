package routers

import (
	"testing"

	"cyberlearn/models"
	"cyberlearn/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartialGameUpdateKeepsStoredFields(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Exploitation", 1)

	code, env := call(t, app, "POST", "/api/content", adminToken, map[string]interface{}{
		"moduleId": module.ID,
		"type":     "game",
		"title":    "Capture the flag",
		"section":  "Practice",
		"game": map[string]interface{}{
			"gameType":     "ctf",
			"maxScore":     50,
			"passingScore": 40,
			"timeLimit":    15,
			"config":       map[string]int{"flags": 3},
		},
	})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var content models.Content
	decode(t, env, &content)
	path := "/api/content/" + itoa(content.ID)

	code, env = call(t, app, "PUT", path, adminToken, map[string]interface{}{
		"game": map[string]int{"passingScore": 30},
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	decode(t, env, &content)
	require.NotNil(t, content.Game)
	assert.Equal(t, models.GameTypeCTF, content.Game.GameType)
	assert.Equal(t, 50, content.Game.MaxScore)
	assert.Equal(t, 30, content.Game.PassingScore)
	assert.Equal(t, 15, content.Game.TimeLimit)
	assert.JSONEq(t, `{"flags":3}`, string(content.Game.Config))

	// the stored maxScore is 50, not the default 100
	code, env = call(t, app, "PUT", path, adminToken, map[string]interface{}{
		"game": map[string]int{"passingScore": 80},
	})
	require.Equal(t, fiber.StatusBadRequest, code)
	var errs map[string]string
	decode(t, env, &errs)
	assert.Contains(t, errs, "game.passingScore")

	var stored models.Game
	require.NoError(t, db.Where("content_id = ?", content.ID).First(&stored).Error)
	assert.Equal(t, 30, stored.PassingScore)

	code, env = call(t, app, "PUT", path, adminToken, map[string]interface{}{
		"game": map[string]int{"maxScore": 200, "passingScore": 150},
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	decode(t, env, &content)
	assert.Equal(t, 200, content.Game.MaxScore)
	assert.Equal(t, 150, content.Game.PassingScore)
	assert.Equal(t, models.GameTypeCTF, content.Game.GameType)
}

func TestPartialLabUpdateKeepsStoredLists(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Recon", 1)

	code, env := call(t, app, "POST", "/api/content", adminToken, map[string]interface{}{
		"moduleId": module.ID,
		"type":     "lab",
		"title":    "Port scanning",
		"section":  "Hands on",
		"lab": map[string]interface{}{
			"environment": "kali",
			"tools":       []string{"nmap", "masscan"},
			"steps":       []string{"scan the subnet"},
			"hints":       []string{"try -sV"},
			"maxAttempts": 3,
		},
	})
	require.Equal(t, fiber.StatusCreated, code, env.Message)
	var content models.Content
	decode(t, env, &content)
	path := "/api/content/" + itoa(content.ID)

	code, env = call(t, app, "PUT", path, adminToken, map[string]interface{}{
		"lab": map[string]int{"maxAttempts": 5},
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	decode(t, env, &content)
	require.NotNil(t, content.Lab)
	assert.Equal(t, 5, content.Lab.MaxAttempts)
	assert.Equal(t, "kali", content.Lab.Environment)
	assert.Equal(t, []string{"nmap", "masscan"}, []string(content.Lab.Tools))
	assert.Equal(t, []string{"scan the subnet"}, []string(content.Lab.Steps))
	assert.Equal(t, []string{"try -sV"}, []string(content.Lab.Hints))

	code, env = call(t, app, "PUT", path, adminToken, map[string]string{"title": "Port scanning 101"})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	decode(t, env, &content)
	require.NotNil(t, content.Lab)
	assert.Equal(t, 5, content.Lab.MaxAttempts)
	assert.Len(t, content.Lab.Tools, 2)
}

func TestUpdateContentChangesTypeAndModule(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	student, _ := testutil.CreateUser(t, db, models.RoleStudent)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	from := testutil.CreateModule(t, db, phase.ID, "Web Security", 1)
	to := testutil.CreateModule(t, db, phase.ID, "Network Security", 2)
	game := testutil.CreateContent(t, db, from.ID, models.ContentTypeGame, "Practice", 1, 15)
	testutil.CreateContent(t, db, from.ID, models.ContentTypeVideo, "Intro", 2, 10)
	testutil.CreateContent(t, db, to.ID, models.ContentTypeVideo, "Intro", 1, 10)
	testutil.Complete(t, db, student.ID, game, testutil.IntPtr(90))

	code, _ := call(t, app, "PUT", "/api/content/"+itoa(game.ID), adminToken, map[string]interface{}{
		"type": "video",
		"game": map[string]int{"passingScore": 10},
	})
	assert.Equal(t, fiber.StatusBadRequest, code, "game details on a non-game type")

	code, env := call(t, app, "PUT", "/api/content/"+itoa(game.ID), adminToken, map[string]interface{}{
		"type":     "video",
		"moduleId": to.ID,
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var moved models.Content
	decode(t, env, &moved)
	assert.Equal(t, models.ContentTypeVideo, moved.Type)
	assert.Equal(t, to.ID, moved.ModuleID)
	assert.Equal(t, 2, moved.Order, "appended after the target module's content")
	assert.Nil(t, moved.Game)

	var games int64
	require.NoError(t, db.Model(&models.Game{}).Where("content_id = ?", game.ID).Count(&games).Error)
	assert.Zero(t, games)

	var progress models.UserProgress
	require.NoError(t, db.Where("user_id = ? AND content_id = ?", student.ID, game.ID).First(&progress).Error)
	assert.Equal(t, to.ID, progress.ModuleID)

	var source, target models.Module
	require.NoError(t, db.First(&source, from.ID).Error)
	require.NoError(t, db.First(&target, to.ID).Error)
	assert.Equal(t, 1, source.TotalContent)
	assert.Empty(t, source.Content.Data().Games)
	assert.Equal(t, 2, target.TotalContent)
	assert.Contains(t, target.Content.Data().Videos, game.ID)

	// back to a game: the detail starts from defaults
	code, env = call(t, app, "PUT", "/api/content/"+itoa(game.ID), adminToken, map[string]string{"type": "game"})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	decode(t, env, &moved)
	require.NotNil(t, moved.Game)
	assert.Equal(t, models.DefaultGameMaxScore, moved.Game.MaxScore)
	assert.Equal(t, models.DefaultGamePassingScore, moved.Game.PassingScore)

	code, _ = call(t, app, "PUT", "/api/content/"+itoa(game.ID), adminToken, map[string]int{"order": 1})
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestUpdateModuleMovesPhase(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	first := testutil.CreatePhase(t, db, "Foundations", 1)
	second := testutil.CreatePhase(t, db, "Offense", 2)
	module := testutil.CreateModule(t, db, first.ID, "Web Security", 1)
	testutil.CreateModule(t, db, first.ID, "Crypto", 2)
	testutil.CreateModule(t, db, second.ID, "Exploitation", 1)

	code, env := call(t, app, "PUT", "/api/modules/"+itoa(module.ID), adminToken, map[string]interface{}{
		"phaseId":    second.ID,
		"difficulty": "advanced",
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var updated models.Module
	decode(t, env, &updated)
	assert.Equal(t, second.ID, updated.PhaseID)
	assert.Equal(t, 2, updated.Order)
	assert.Equal(t, "advanced", updated.Difficulty)

	code, _ = call(t, app, "PUT", "/api/modules/"+itoa(module.ID), adminToken, map[string]int{"order": 1})
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = call(t, app, "PUT", "/api/modules/"+itoa(module.ID), adminToken, map[string]int{"phaseId": 999})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestReorderModules(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	other := testutil.CreatePhase(t, db, "Offense", 2)
	a := testutil.CreateModule(t, db, phase.ID, "Web Security", 1)
	b := testutil.CreateModule(t, db, phase.ID, "Crypto", 2)
	elsewhere := testutil.CreateModule(t, db, other.ID, "Exploitation", 1)

	code, env := call(t, app, "PUT", "/api/modules/reorder", adminToken, map[string]interface{}{
		"phaseId": phase.ID,
		"items": []map[string]interface{}{
			{"id": a.ID, "order": 2},
			{"id": b.ID, "order": 1},
		},
	})
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var modules []models.Module
	decode(t, env, &modules)
	require.Len(t, modules, 2)
	assert.Equal(t, b.ID, modules[0].ID)
	assert.Equal(t, a.ID, modules[1].ID)

	code, _ = call(t, app, "PUT", "/api/modules/reorder", adminToken, map[string]interface{}{
		"phaseId": phase.ID,
		"items":   []map[string]interface{}{{"id": elsewhere.ID, "order": 3}},
	})
	assert.Equal(t, fiber.StatusNotFound, code, "modules of another phase")

	code, _ = call(t, app, "PUT", "/api/modules/reorder", adminToken, map[string]interface{}{
		"phaseId": 999,
		"items":   []map[string]interface{}{{"id": a.ID, "order": 1}},
	})
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestModuleSections(t *testing.T) {
	app, db := setupApp(t)
	_, token := testutil.CreateUser(t, db, models.RoleStudent)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Web Security", 1)
	testutil.CreateContent(t, db, module.ID, models.ContentTypeVideo, "Intro", 1, 10)
	testutil.CreateContent(t, db, module.ID, models.ContentTypeLab, "Hands on", 2, 30)
	testutil.CreateContent(t, db, module.ID, models.ContentTypeDocument, "Intro", 3, 5)
	hidden := testutil.CreateContent(t, db, module.ID, models.ContentTypeGame, "Boss fight", 4, 15)
	require.NoError(t, db.Model(&hidden).Update("is_active", false).Error)

	code, env := call(t, app, "GET", "/api/content/module/"+itoa(module.ID)+"/sections", token, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var sections []string
	decode(t, env, &sections)
	assert.Equal(t, []string{"Intro", "Hands on"}, sections)

	code, _ = call(t, app, "GET", "/api/content/module/999/sections", token, nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestSearchFilters(t *testing.T) {
	app, db := setupApp(t)
	_, adminToken := testutil.CreateUser(t, db, models.RoleAdmin)
	phase := testutil.CreatePhase(t, db, "Foundations", 1)
	web := testutil.CreateModule(t, db, phase.ID, "Web Security", 1)
	testutil.CreateModule(t, db, phase.ID, "Cryptography", 2)
	xss := testutil.CreateContent(t, db, web.ID, models.ContentTypeVideo, "Intro", 1, 10)
	require.NoError(t, db.Model(&xss).Update("title", "Reflected XSS").Error)
	testutil.CreateContent(t, db, web.ID, models.ContentTypeDocument, "Intro", 2, 5)

	target := models.User{Username: "nightowl", Email: "owl@example.com", Password: "x", FirstName: "Zelda", Role: models.RoleStudent, IsActive: true}
	require.NoError(t, db.Create(&target).Error)

	type page[T any] struct {
		Items []T `json:"items"`
	}

	code, env := call(t, app, "GET", "/api/content?search=xss", adminToken, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var contents page[models.Content]
	decode(t, env, &contents)
	require.Len(t, contents.Items, 1)
	assert.Equal(t, xss.ID, contents.Items[0].ID)

	code, env = call(t, app, "GET", "/api/modules?search=CRYPTO", adminToken, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var modules page[models.Module]
	decode(t, env, &modules)
	require.Len(t, modules.Items, 1)
	assert.Equal(t, "Cryptography", modules.Items[0].Title)

	code, env = call(t, app, "GET", "/api/users?search=zelda", adminToken, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	var users page[models.User]
	decode(t, env, &users)
	require.Len(t, users.Items, 1)
	assert.Equal(t, target.ID, users.Items[0].ID)

	code, env = call(t, app, "GET", "/api/content?search=nothing-matches", adminToken, nil)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	decode(t, env, &contents)
	assert.Empty(t, contents.Items)
}
