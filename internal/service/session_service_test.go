package service

import (
	"testing"
	"time"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statusPtr(s model.SessionStatus) *model.SessionStatus { return &s }

func TestCreateSession(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSessionService(db)

	alice := seedUser(t, db, "alice@example.com", model.Student)
	drbob := seedUser(t, db, "drbob@example.com", model.Counsellor)
	eve := seedUser(t, db, "eve@example.com", model.Student)

	future := time.Now().Add(48 * time.Hour)

	session, err := svc.CreateSession(alice, CreateSessionInput{
		StudentID:    alice.ID,
		CounsellorID: drbob.ID,
		ScheduledAt:  future,
	})
	require.NoError(t, err)
	assert.Equal(t, model.SessionPending, session.Status)
	assert.Equal(t, model.SessionIndividual, session.Type)

	// 双方各收到一条通知（异步写入）
	require.Eventually(t, func() bool {
		var count int64
		db.Model(&model.Notification{}).Count(&count)
		return count == 2
	}, time.Second, 10*time.Millisecond)

	// 学生不能替别人预约
	_, err = svc.CreateSession(alice, CreateSessionInput{
		StudentID:    eve.ID,
		CounsellorID: drbob.ID,
		ScheduledAt:  future,
	})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 辅导员ID必须是辅导员
	_, err = svc.CreateSession(alice, CreateSessionInput{
		StudentID:    alice.ID,
		CounsellorID: eve.ID,
		ScheduledAt:  future,
	})
	assert.ErrorIs(t, err, util.ErrNotACounsellor)

	// 过去的时间
	_, err = svc.CreateSession(alice, CreateSessionInput{
		StudentID:    alice.ID,
		CounsellorID: drbob.ID,
		ScheduledAt:  time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, util.ErrScheduleInPast)
}

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSessionService(db)

	alice := seedUser(t, db, "alice@example.com", model.Student)
	drbob := seedUser(t, db, "drbob@example.com", model.Counsellor)
	other := seedUser(t, db, "other@example.com", model.Counsellor)

	session, err := svc.CreateSession(alice, CreateSessionInput{
		StudentID:    alice.ID,
		CounsellorID: drbob.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// 学生不能确认
	_, err = svc.UpdateSession(alice, session.ID, UpdateSessionInput{Status: statusPtr(model.SessionConfirmed)})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 其他辅导员不能确认
	_, err = svc.UpdateSession(other, session.ID, UpdateSessionInput{Status: statusPtr(model.SessionConfirmed)})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// pending 不能直接 completed
	_, err = svc.UpdateSession(drbob, session.ID, UpdateSessionInput{Status: statusPtr(model.SessionCompleted)})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	// 被指派的辅导员确认
	updated, err := svc.UpdateSession(drbob, session.ID, UpdateSessionInput{Status: statusPtr(model.SessionConfirmed)})
	require.NoError(t, err)
	assert.Equal(t, model.SessionConfirmed, updated.Status)

	// 学生不能标记完成
	_, err = svc.UpdateSession(alice, session.ID, UpdateSessionInput{Status: statusPtr(model.SessionCompleted)})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err = svc.UpdateSession(drbob, session.ID, UpdateSessionInput{Status: statusPtr(model.SessionCompleted)})
	require.NoError(t, err)
	assert.Equal(t, model.SessionCompleted, updated.Status)

	// 终态之后任何迁移都非法
	_, err = svc.UpdateSession(drbob, session.ID, UpdateSessionInput{Status: statusPtr(model.SessionCancelled)})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)

	// 未知状态值
	bogus := model.SessionStatus("archived")
	_, err = svc.UpdateSession(drbob, session.ID, UpdateSessionInput{Status: &bogus})
	assert.ErrorIs(t, err, util.ErrInvalidStatus)

	// 不存在的预约
	_, err = svc.UpdateSession(drbob, 9999, UpdateSessionInput{Status: statusPtr(model.SessionConfirmed)})
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestSessionCancel(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSessionService(db)

	alice := seedUser(t, db, "alice@example.com", model.Student)
	drbob := seedUser(t, db, "drbob@example.com", model.Counsellor)
	eve := seedUser(t, db, "eve@example.com", model.Student)

	book := func() *model.CounsellingSession {
		s, err := svc.CreateSession(alice, CreateSessionInput{
			StudentID:    alice.ID,
			CounsellorID: drbob.ID,
			ScheduledAt:  time.Now().Add(24 * time.Hour),
		})
		require.NoError(t, err)
		return s
	}

	// 归属学生可以取消待确认的预约
	s1 := book()
	updated, err := svc.UpdateSession(alice, s1.ID, UpdateSessionInput{Status: statusPtr(model.SessionCancelled)})
	require.NoError(t, err)
	assert.Equal(t, model.SessionCancelled, updated.Status)

	// 其他学生不行
	s2 := book()
	_, err = svc.UpdateSession(eve, s2.ID, UpdateSessionInput{Status: statusPtr(model.SessionCancelled)})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 已确认的预约双方仍可取消
	_, err = svc.UpdateSession(drbob, s2.ID, UpdateSessionInput{Status: statusPtr(model.SessionConfirmed)})
	require.NoError(t, err)
	updated, err = svc.UpdateSession(drbob, s2.ID, UpdateSessionInput{Status: statusPtr(model.SessionCancelled)})
	require.NoError(t, err)
	assert.Equal(t, model.SessionCancelled, updated.Status)
}

func TestSessionReschedule(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSessionService(db)

	alice := seedUser(t, db, "alice@example.com", model.Student)
	drbob := seedUser(t, db, "drbob@example.com", model.Counsellor)

	session, err := svc.CreateSession(alice, CreateSessionInput{
		StudentID:    alice.ID,
		CounsellorID: drbob.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	// 改到过去
	past := time.Now().Add(-time.Hour)
	_, err = svc.UpdateSession(alice, session.ID, UpdateSessionInput{ScheduledAt: &past})
	assert.ErrorIs(t, err, util.ErrScheduleInPast)

	// 预约双方都可以为 pending 改期
	newTime := time.Now().Add(72 * time.Hour)
	updated, err := svc.UpdateSession(drbob, session.ID, UpdateSessionInput{ScheduledAt: &newTime})
	require.NoError(t, err)
	assert.WithinDuration(t, newTime, updated.ScheduledAt, time.Second)

	// 确认后不允许改期
	_, err = svc.UpdateSession(drbob, session.ID, UpdateSessionInput{Status: statusPtr(model.SessionConfirmed)})
	require.NoError(t, err)
	_, err = svc.UpdateSession(alice, session.ID, UpdateSessionInput{ScheduledAt: &newTime})
	assert.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestSessionNotes(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSessionService(db)

	alice := seedUser(t, db, "alice@example.com", model.Student)
	drbob := seedUser(t, db, "drbob@example.com", model.Counsellor)

	session, err := svc.CreateSession(alice, CreateSessionInput{
		StudentID:    alice.ID,
		CounsellorID: drbob.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	notes := "initial assessment done"
	updated, err := svc.UpdateSession(drbob, session.ID, UpdateSessionInput{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)

	// 学生不能写辅导员记录
	_, err = svc.UpdateSession(alice, session.ID, UpdateSessionInput{Notes: &notes})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	studentNotes := "felt much better afterwards"
	updated, err = svc.UpdateSession(alice, session.ID, UpdateSessionInput{StudentNotes: &studentNotes})
	require.NoError(t, err)
	assert.Equal(t, studentNotes, updated.StudentNotes)

	// 辅导员不能写学生自述
	_, err = svc.UpdateSession(drbob, session.ID, UpdateSessionInput{StudentNotes: &studentNotes})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestListPendingScopedToCounsellor(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSessionService(db)

	alice := seedUser(t, db, "alice@example.com", model.Student)
	drbob := seedUser(t, db, "drbob@example.com", model.Counsellor)
	other := seedUser(t, db, "other@example.com", model.Counsellor)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	_, err := svc.CreateSession(alice, CreateSessionInput{
		StudentID:    alice.ID,
		CounsellorID: drbob.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	mine, err := svc.ListPending(drbob)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	none, err := svc.ListPending(other)
	require.NoError(t, err)
	assert.Empty(t, none)

	all, err := svc.ListPending(admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.ListPending(alice)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestGetSessionVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := newTestSessionService(db)

	alice := seedUser(t, db, "alice@example.com", model.Student)
	drbob := seedUser(t, db, "drbob@example.com", model.Counsellor)
	eve := seedUser(t, db, "eve@example.com", model.Student)
	admin := seedUser(t, db, "admin@example.com", model.Admin)

	session, err := svc.CreateSession(alice, CreateSessionInput{
		StudentID:    alice.ID,
		CounsellorID: drbob.ID,
		ScheduledAt:  time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	for _, caller := range []*model.User{alice, drbob, admin} {
		got, err := svc.GetSession(caller, session.ID)
		require.NoError(t, err, caller.Email)
		assert.Equal(t, session.ID, got.ID)
	}

	_, err = svc.GetSession(eve, session.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	_, err = svc.GetSession(admin, 9999)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}
