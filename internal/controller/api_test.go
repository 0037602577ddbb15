package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"youth_hub_backend/internal/config"
	"youth_hub_backend/internal/middleware"
	"youth_hub_backend/internal/model"
	"youth_hub_backend/internal/repository"
	"youth_hub_backend/internal/service"
	"youth_hub_backend/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.CounsellingSession{},
		&model.Resource{},
		&model.Message{},
		&model.UserProgress{},
		&model.Notification{},
	))

	store := token.NewMemoryStore(time.Hour)
	t.Cleanup(store.Stop)

	userRepo := repository.NewUserRepository(db)
	auth := service.NewAuthService(userRepo, store, &config.Config{})
	users := service.NewUserService(userRepo)
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db))
	sessions := service.NewSessionService(repository.NewSessionRepository(db), userRepo, notifications)
	resources := service.NewResourceService(repository.NewResourceRepository(db), nil, nil)
	messages := service.NewMessageService(repository.NewMessageRepository(db), userRepo)
	progress := service.NewProgressService(repository.NewProgressRepository(db), repository.NewResourceRepository(db))
	analytics := service.NewAnalyticsService(repository.NewAnalyticsRepository(db))

	authCtrl := NewAuthController(auth, users)
	userCtrl := NewUserController(users)
	sessionCtrl := NewSessionController(sessions)
	resourceCtrl := NewResourceController(resources)
	messageCtrl := NewMessageController(messages)
	progressCtrl := NewProgressController(progress)
	notificationCtrl := NewNotificationController(notifications)
	analyticsCtrl := NewAnalyticsController(analytics)

	router := gin.New()
	router.POST("/api/register", authCtrl.Register)
	router.POST("/api/login", authCtrl.Login)

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthMiddleware(auth))
	{
		authorized.POST("/logout", authCtrl.Logout)
		authorized.GET("/auth/user", authCtrl.GetCurrentUser)
		authorized.GET("/counsellors", userCtrl.GetCounsellors)

		authorized.POST("/sessions", sessionCtrl.CreateSession)
		authorized.GET("/sessions/student", sessionCtrl.GetStudentSessions)
		authorized.GET("/sessions/counsellor", middleware.RoleMiddleware(model.Counsellor), sessionCtrl.GetCounsellorSessions)
		authorized.GET("/sessions/pending", middleware.RoleMiddleware(model.Counsellor), sessionCtrl.GetPendingSessions)
		authorized.GET("/sessions/:id", sessionCtrl.GetSession)
		authorized.PATCH("/sessions/:id", sessionCtrl.UpdateSession)

		authorized.GET("/resources", resourceCtrl.GetResources)
		authorized.POST("/resources", middleware.RoleMiddleware(model.Counsellor), resourceCtrl.CreateResource)

		authorized.POST("/messages", messageCtrl.SendMessage)
		authorized.GET("/messages/conversations", messageCtrl.GetConversations)

		authorized.POST("/progress", progressCtrl.UpsertProgress)
		authorized.GET("/progress", progressCtrl.GetProgress)

		authorized.GET("/notifications", notificationCtrl.GetNotifications)

		authorized.GET("/analytics/stats", middleware.RoleMiddleware(model.Admin), analyticsCtrl.GetStats)
	}

	return &testServer{router: router, db: db}
}

func (s *testServer) do(t *testing.T, method, path, tok string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []interface{} {
	t.Helper()
	var envelope struct {
		Data []interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Data
}

func (s *testServer) register(t *testing.T, email, role string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/register", "", gin.H{
		"email":     email,
		"password":  "password123",
		"firstName": strings.Split(email, "@")[0],
		"lastName":  "Test",
		"role":      role,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tok, _ := decodeData(t, w)["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "alice@example.com", "student")

	// 重复邮箱
	w := srv.do(t, http.MethodPost, "/api/register", "", gin.H{
		"email":     "alice@example.com",
		"password":  "password123",
		"firstName": "Alice",
		"lastName":  "Test",
		"role":      "student",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 口令太短
	w = srv.do(t, http.MethodPost, "/api/register", "", gin.H{
		"email":     "short@example.com",
		"password":  "short",
		"firstName": "S",
		"lastName":  "T",
		"role":      "student",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 不允许直接注册管理员
	w = srv.do(t, http.MethodPost, "/api/register", "", gin.H{
		"email":     "boss@example.com",
		"password":  "password123",
		"firstName": "Boss",
		"lastName":  "T",
		"role":      "admin",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 错误口令
	w = srv.do(t, http.MethodPost, "/api/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok := srv.login(t, "alice@example.com")

	// 当前用户
	w = srv.do(t, http.MethodGet, "/api/auth/user", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice@example.com", decodeData(t, w)["email"])

	// 无令牌
	w = srv.do(t, http.MethodGet, "/api/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 注销后令牌失效
	w = srv.do(t, http.MethodPost, "/api/logout", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = srv.do(t, http.MethodGet, "/api/auth/user", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionBookingFlow(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "alice@example.com", "student")
	srv.register(t, "drbob@example.com", "counsellor")
	aliceTok := srv.login(t, "alice@example.com")
	drbobTok := srv.login(t, "drbob@example.com")

	// 辅导员列表给学生选
	w := srv.do(t, http.MethodGet, "/api/counsellors", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	counsellors := decodeList(t, w)
	require.Len(t, counsellors, 1)
	drbobID := counsellors[0].(map[string]interface{})["id"].(string)

	// 预约
	w = srv.do(t, http.MethodPost, "/api/sessions", aliceTok, gin.H{
		"counsellorId": drbobID,
		"scheduledAt":  "2030-01-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeData(t, w)
	assert.Equal(t, "pending", created["status"])
	sessionID := int(created["id"].(float64))

	// 未登录不可预约
	w = srv.do(t, http.MethodPost, "/api/sessions", "", gin.H{
		"counsellorId": drbobID,
		"scheduledAt":  "2030-01-01T10:00:00Z",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 过去的时间
	w = srv.do(t, http.MethodPost, "/api/sessions", aliceTok, gin.H{
		"counsellorId": drbobID,
		"scheduledAt":  "2020-01-01T10:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 辅导员收到待确认列表；学生访问则403
	w = srv.do(t, http.MethodGet, "/api/sessions/pending", drbobTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
	w = srv.do(t, http.MethodGet, "/api/sessions/pending", aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	path := fmt.Sprintf("/api/sessions/%d", sessionID)

	// 学生不能确认自己的预约
	w = srv.do(t, http.MethodPatch, path, aliceTok, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 辅导员确认
	w = srv.do(t, http.MethodPatch, path, drbobTok, gin.H{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decodeData(t, w)["status"])

	// 学生不能标记完成
	w = srv.do(t, http.MethodPatch, path, aliceTok, gin.H{"status": "completed"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 辅导员完成
	w = srv.do(t, http.MethodPatch, path, drbobTok, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)

	// 终态之后的迁移 400
	w = srv.do(t, http.MethodPatch, path, drbobTok, gin.H{"status": "cancelled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 不存在的预约
	w = srv.do(t, http.MethodPatch, "/api/sessions/9999", drbobTok, gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 各自的列表
	w = srv.do(t, http.MethodGet, "/api/sessions/student", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)
	w = srv.do(t, http.MethodGet, "/api/sessions/counsellor", drbobTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	// 预约双方收到了通知
	assert.Eventually(t, func() bool {
		w := srv.do(t, http.MethodGet, "/api/notifications", aliceTok, nil)
		return w.Code == http.StatusOK && len(decodeList(t, w)) > 0
	}, time.Second, 10*time.Millisecond)
}

func TestResourceAndProgressFlow(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "alice@example.com", "student")
	srv.register(t, "drbob@example.com", "counsellor")
	aliceTok := srv.login(t, "alice@example.com")
	drbobTok := srv.login(t, "drbob@example.com")

	// 学生不能建资源（路由层直接403）
	w := srv.do(t, http.MethodPost, "/api/resources", aliceTok, gin.H{
		"title": "x", "type": "worksheet",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.do(t, http.MethodPost, "/api/resources", drbobTok, gin.H{
		"title":       "焦虑管理工作表",
		"description": "CBT 基础练习",
		"type":        "worksheet",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resourceID := int(decodeData(t, w)["id"].(float64))

	// 两次上报进度，幂等到一行
	w = srv.do(t, http.MethodPost, "/api/progress", aliceTok, gin.H{
		"resourceId": resourceID, "progress": 40,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 40, decodeData(t, w)["progress"])

	w = srv.do(t, http.MethodPost, "/api/progress", aliceTok, gin.H{
		"resourceId": resourceID, "progress": 70,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 70, decodeData(t, w)["progress"])

	w = srv.do(t, http.MethodGet, "/api/progress", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 1)

	// 不存在的资源
	w = srv.do(t, http.MethodPost, "/api/progress", aliceTok, gin.H{
		"resourceId": 9999, "progress": 10,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMessagingFlow(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "alice@example.com", "student")
	srv.register(t, "drbob@example.com", "counsellor")
	aliceTok := srv.login(t, "alice@example.com")
	drbobTok := srv.login(t, "drbob@example.com")

	w := srv.do(t, http.MethodGet, "/api/counsellors", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	drbobID := decodeList(t, w)[0].(map[string]interface{})["id"].(string)

	w = srv.do(t, http.MethodPost, "/api/messages", aliceTok, gin.H{
		"receiverId": drbobID,
		"content":    "想预约下周的时间",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 给自己发 400
	w = srv.do(t, http.MethodGet, "/api/auth/user", aliceTok, nil)
	aliceID := decodeData(t, w)["id"].(string)
	w = srv.do(t, http.MethodPost, "/api/messages", aliceTok, gin.H{
		"receiverId": aliceID,
		"content":    "hi",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 接收方的会话列表包含未读
	w = srv.do(t, http.MethodGet, "/api/messages/conversations", drbobTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	summaries := decodeList(t, w)
	require.Len(t, summaries, 1)
	assert.EqualValues(t, 1, summaries[0].(map[string]interface{})["unreadCount"])
}

func TestAdminStats(t *testing.T) {
	srv := newTestServer(t)

	srv.register(t, "alice@example.com", "student")
	aliceTok := srv.login(t, "alice@example.com")

	// 管理员通过种子方式产生，不走注册
	require.NoError(t, srv.db.Model(&model.User{}).
		Where("email = ?", "alice@example.com").
		Update("role", model.Admin).Error)

	w := srv.do(t, http.MethodGet, "/api/analytics/stats", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := decodeData(t, w)
	assert.NotNil(t, stats["usersByRole"])

	// 普通用户 403
	srv.register(t, "eve@example.com", "student")
	eveTok := srv.login(t, "eve@example.com")
	w = srv.do(t, http.MethodGet, "/api/analytics/stats", eveTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
