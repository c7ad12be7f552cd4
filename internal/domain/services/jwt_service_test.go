package services

import (
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	token, err := svc.GenerateToken("user-1", models.RoleAgent)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleAgent, claims.Role)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestLoginSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	user := models.User{
		Name:     "Agent One",
		Username: "agent_one",
		Email:    "agent@example.com",
		Password: "secret-password",
		Role:     models.RoleAgent,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(&user).Error)

	result, err := svc.Login("agent@example.com", "secret-password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.UserID)
	assert.Equal(t, models.RoleAgent, result.Role)
	assert.NotEmpty(t, result.Token)
}

func TestLoginUniformErrorForBadCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	user := models.User{
		Name:     "Agent One",
		Username: "agent_one",
		Email:    "agent@example.com",
		Password: "secret-password",
		Role:     models.RoleAgent,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(&user).Error)

	// 密码错误与邮箱不存在返回完全一致的错误文案
	_, wrongPass := svc.Login("agent@example.com", "wrong-password")
	require.Error(t, wrongPass)

	_, noUser := svc.Login("nobody@example.com", "whatever")
	require.Error(t, noUser)

	assert.Equal(t, wrongPass.Error(), noUser.Error())
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	user := models.User{
		Name:     "Former Agent",
		Username: "former_agent",
		Email:    "former@example.com",
		Password: "secret-password",
		Role:     models.RoleAgent,
		Status:   models.UserStatusInactive,
	}
	require.NoError(t, db.Create(&user).Error)

	_, err := svc.Login("former@example.com", "secret-password")
	require.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewJWTService(newTestConfig(), db)

	admin := models.User{
		Name:     "Boss",
		Username: "boss",
		Email:    "boss@example.com",
		Password: "secret-password",
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(&admin).Error)
	agent := createTestAgent(t, db, "worker")

	isAdmin, err := svc.IsAdmin(admin.ID)
	require.NoError(t, err)
	assert.True(t, isAdmin)

	isAdmin, err = svc.IsAdmin(agent.ID)
	require.NoError(t, err)
	assert.False(t, isAdmin)

	// 未知用户不报错，按非管理员处理
	isAdmin, err = svc.IsAdmin("no-such-user")
	require.NoError(t, err)
	assert.False(t, isAdmin)
}
