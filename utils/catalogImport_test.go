package utils

import (
	"strings"
	"testing"

	"cyberlearn/models"
	"cyberlearn/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogCSV = `phase,module,difficulty,section,type,title,duration,url,description
Foundations,Networking,intermediate,Intro,video,OSI Model,30,https://v.example.com/osi,
Foundations,Networking,,Practice,game,Subnet Quiz,20,,
Foundations,Networking,,Practice,lab,Packet Capture,60,,capture traffic
Foundations,Networking,,,podcast,Not A Type,5,,
Offense,Web Attacks,advanced,,document,OWASP Top 10,15,,
`

func TestImportCatalogCSV(t *testing.T) {
	db := testutil.Setup(t)
	t.Cleanup(WaitForSync)

	res, err := ImportCatalogCSV(db, strings.NewReader(catalogCSV))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Inserted: 4, Skipped: 1}, res)

	var phases []models.Phase
	require.NoError(t, db.Order("sort_order asc").Find(&phases).Error)
	require.Len(t, phases, 2)
	assert.Equal(t, "Foundations", phases[0].Title)
	assert.Equal(t, 2, phases[1].Order)

	var module models.Module
	require.NoError(t, db.Where("title = ?", "Networking").First(&module).Error)
	assert.Equal(t, models.DifficultyIntermediate, module.Difficulty)
	assert.Equal(t, 3, module.TotalContent)
	assert.Equal(t, 2, module.EstimatedHours)

	var game models.Content
	require.NoError(t, db.Preload("Game").Where("title = ?", "Subnet Quiz").First(&game).Error)
	require.NotNil(t, game.Game)
	assert.Equal(t, 70, game.Game.PassingScore)
	assert.Equal(t, 2, game.Order)

	var doc models.Content
	require.NoError(t, db.Where("title = ?", "OWASP Top 10").First(&doc).Error)
	assert.Equal(t, "General", doc.Section)

	// a second run updates in place
	res, err = ImportCatalogCSV(db, strings.NewReader(catalogCSV))
	require.NoError(t, err)
	assert.Equal(t, ImportResult{Updated: 4, Skipped: 1}, res)

	var count int64
	db.Model(&models.Content{}).Count(&count)
	assert.Equal(t, int64(4), count)
}

func TestImportCatalogCSVRejectsEmptyFile(t *testing.T) {
	db := testutil.Setup(t)

	_, err := ImportCatalogCSV(db, strings.NewReader("phase,module,type,title\n"))
	assert.Error(t, err)
}
