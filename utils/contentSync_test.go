package utils

import (
	"testing"
	"time"

	"cyberlearn/models"
	"cyberlearn/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimatedHoursRoundsUp(t *testing.T) {
	assert.Equal(t, 0, EstimatedHours(0))
	assert.Equal(t, 1, EstimatedHours(1))
	assert.Equal(t, 1, EstimatedHours(60))
	assert.Equal(t, 2, EstimatedHours(61))
}

func TestApplyEnrollmentProgress(t *testing.T) {
	now := time.Now()

	t.Run("partial", func(t *testing.T) {
		e := models.UserEnrollment{Status: models.EnrollmentActive}
		ApplyEnrollmentProgress(&e, 2, 3, now)
		assert.Equal(t, 67, e.ProgressPercentage)
		assert.Equal(t, models.EnrollmentActive, e.Status)
		assert.Nil(t, e.CompletedAt)
	})

	t.Run("never rounds to 100 before completion", func(t *testing.T) {
		e := models.UserEnrollment{Status: models.EnrollmentActive}
		ApplyEnrollmentProgress(&e, 199, 200, now)
		assert.Equal(t, 99, e.ProgressPercentage)
	})

	t.Run("completes and reopens", func(t *testing.T) {
		e := models.UserEnrollment{Status: models.EnrollmentActive}
		ApplyEnrollmentProgress(&e, 4, 4, now)
		assert.Equal(t, 100, e.ProgressPercentage)
		assert.Equal(t, models.EnrollmentCompleted, e.Status)
		require.NotNil(t, e.CompletedAt)

		ApplyEnrollmentProgress(&e, 4, 5, now)
		assert.Equal(t, 80, e.ProgressPercentage)
		assert.Equal(t, models.EnrollmentActive, e.Status)
		assert.Nil(t, e.CompletedAt)
	})

	t.Run("dropped keeps status", func(t *testing.T) {
		e := models.UserEnrollment{Status: models.EnrollmentDropped}
		ApplyEnrollmentProgress(&e, 3, 3, now)
		assert.Equal(t, models.EnrollmentDropped, e.Status)
		assert.Equal(t, 100, e.ProgressPercentage)
	})

	t.Run("empty module", func(t *testing.T) {
		e := models.UserEnrollment{Status: models.EnrollmentActive}
		ApplyEnrollmentProgress(&e, 0, 0, now)
		assert.Equal(t, 0, e.ProgressPercentage)
		assert.Equal(t, models.EnrollmentActive, e.Status)
	})
}

func TestRefreshModuleContent(t *testing.T) {
	db := testutil.Setup(t)
	phase := testutil.CreatePhase(t, db, "Beginner", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Recon", 1)
	video := testutil.CreateContent(t, db, module.ID, models.ContentTypeVideo, "Intro", 1, 45)
	lab := testutil.CreateContent(t, db, module.ID, models.ContentTypeLab, "Practice", 2, 30)
	hidden := testutil.CreateContent(t, db, module.ID, models.ContentTypeGame, "Practice", 3, 90)
	require.NoError(t, db.Model(&hidden).Update("is_active", false).Error)

	require.NoError(t, RefreshModuleContent(db, module.ID))

	var reloaded models.Module
	require.NoError(t, db.First(&reloaded, module.ID).Error)
	summary := reloaded.Content.Data()
	assert.Equal(t, []uint{video.ID}, summary.Videos)
	assert.Equal(t, []uint{lab.ID}, summary.Labs)
	assert.Empty(t, summary.Games)
	assert.Equal(t, 2, reloaded.TotalContent)
	assert.Equal(t, 2, reloaded.EstimatedHours)
}

func TestResyncEnrollmentCountsOnlyActiveContent(t *testing.T) {
	db := testutil.Setup(t)
	student, _ := testutil.CreateUser(t, db, models.RoleStudent)
	phase := testutil.CreatePhase(t, db, "Beginner", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Recon", 1)
	a := testutil.CreateContent(t, db, module.ID, models.ContentTypeVideo, "Intro", 1, 10)
	b := testutil.CreateContent(t, db, module.ID, models.ContentTypeDocument, "Intro", 2, 10)
	c := testutil.CreateContent(t, db, module.ID, models.ContentTypeLab, "Practice", 3, 10)
	testutil.Enroll(t, db, student.ID, module.ID, 3)

	testutil.Complete(t, db, student.ID, a, nil)
	testutil.Complete(t, db, student.ID, b, nil)

	enrollment, err := ResyncEnrollment(db, student.ID, module.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, enrollment.CompletedSections)
	assert.Equal(t, 3, enrollment.TotalSections)
	assert.Equal(t, 67, enrollment.ProgressPercentage)

	// deactivating the only unfinished item completes the module
	require.NoError(t, db.Model(&c).Update("is_active", false).Error)
	enrollment, err = ResyncEnrollment(db, student.ID, module.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, enrollment.ProgressPercentage)
	assert.Equal(t, models.EnrollmentCompleted, enrollment.Status)

	var stored models.UserEnrollment
	require.NoError(t, db.First(&stored, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentCompleted, stored.Status)
	assert.NotNil(t, stored.CompletedAt)
}

func TestSyncAfterContentChangeUpdatesEnrollments(t *testing.T) {
	db := testutil.Setup(t)
	student, _ := testutil.CreateUser(t, db, models.RoleStudent)
	phase := testutil.CreatePhase(t, db, "Beginner", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Recon", 1)
	a := testutil.CreateContent(t, db, module.ID, models.ContentTypeVideo, "Intro", 1, 30)
	testutil.Enroll(t, db, student.ID, module.ID, 1)
	testutil.Complete(t, db, student.ID, a, nil)

	SyncAfterContentChange(db, module.ID)
	WaitForSync()

	var enrollment models.UserEnrollment
	require.NoError(t, db.Where("user_id = ? AND module_id = ?", student.ID, module.ID).First(&enrollment).Error)
	assert.Equal(t, models.EnrollmentCompleted, enrollment.Status)

	testutil.CreateContent(t, db, module.ID, models.ContentTypeLab, "Practice", 2, 45)
	SyncAfterContentChange(db, module.ID, module.ID, 0)
	WaitForSync()

	require.NoError(t, db.First(&enrollment, enrollment.ID).Error)
	assert.Equal(t, models.EnrollmentActive, enrollment.Status)
	assert.Equal(t, 2, enrollment.TotalSections)
	assert.Equal(t, 50, enrollment.ProgressPercentage)

	var reloaded models.Module
	require.NoError(t, db.First(&reloaded, module.ID).Error)
	assert.Equal(t, 2, reloaded.TotalContent)
	assert.Equal(t, 2, reloaded.EstimatedHours)
}

func TestReconcileAllRepairsDrift(t *testing.T) {
	db := testutil.Setup(t)
	student, _ := testutil.CreateUser(t, db, models.RoleStudent)
	phase := testutil.CreatePhase(t, db, "Beginner", 1)
	module := testutil.CreateModule(t, db, phase.ID, "Recon", 1)
	a := testutil.CreateContent(t, db, module.ID, models.ContentTypeVideo, "Intro", 1, 30)
	testutil.CreateContent(t, db, module.ID, models.ContentTypeGame, "Practice", 2, 30)
	enrollment := testutil.Enroll(t, db, student.ID, module.ID, 7)
	testutil.Complete(t, db, student.ID, a, nil)

	require.NoError(t, ReconcileAll(db))

	require.NoError(t, db.First(&enrollment, enrollment.ID).Error)
	assert.Equal(t, 2, enrollment.TotalSections)
	assert.Equal(t, 1, enrollment.CompletedSections)
	assert.Equal(t, 50, enrollment.ProgressPercentage)

	var reloaded models.Module
	require.NoError(t, db.First(&reloaded, module.ID).Error)
	assert.Equal(t, 2, reloaded.TotalContent)
	assert.Equal(t, 1, reloaded.EstimatedHours)
}
