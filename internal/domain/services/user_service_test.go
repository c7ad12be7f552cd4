package services

import (
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"
	"github.com/Vfxchu/Real-estate-Crm-sub005/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserDefaultsAndDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestConfig())

	user := models.User{Name: "Agent One", Username: "agent_one", Password: "secret-password"}
	require.NoError(t, svc.CreateUser(&user))
	assert.Equal(t, models.RoleAgent, user.Role)
	assert.Equal(t, models.UserStatusActive, user.Status)
	// 密码在钩子里被哈希
	assert.NotEqual(t, "secret-password", user.Password)
	assert.True(t, utils.CheckPasswordHash("secret-password", user.Password))

	dup := models.User{Name: "Imposter", Username: "agent_one", Password: "other"}
	err := svc.CreateUser(&dup)
	require.Error(t, err)
	assert.Equal(t, "用户名已存在", err.Error())
}

func TestUpdateUserIgnoresPasswordField(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestConfig())

	agent := createTestAgent(t, db, "agent_one")
	before := agent.Password

	updated, err := svc.UpdateUser(agent.ID, map[string]interface{}{
		"name":     "Renamed Agent",
		"password": "sneaky",
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Agent", updated.Name)
	assert.Equal(t, before, updated.Password)
}

func TestChangePasswordRequiresOldPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestConfig())

	user := models.User{Name: "Agent One", Username: "agent_one", Password: "secret-password"}
	require.NoError(t, svc.CreateUser(&user))

	err := svc.ChangePassword(user.ID, "wrong-password", "new-password")
	require.Error(t, err)
	assert.Equal(t, "旧密码不正确", err.Error())

	require.NoError(t, svc.ChangePassword(user.ID, "secret-password", "new-password"))

	stored, err := svc.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPasswordHash("new-password", stored.Password))
}

func TestGetActiveAgentsExcludesAdminsAndInactive(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db, newTestConfig())

	createTestAgent(t, db, "worker")
	admin := models.User{Name: "Boss", Username: "boss", Password: "pw", Role: models.RoleAdmin, Status: models.UserStatusActive}
	require.NoError(t, db.Create(&admin).Error)
	former := models.User{Name: "Former", Username: "former", Password: "pw", Role: models.RoleAgent, Status: models.UserStatusInactive}
	require.NoError(t, db.Create(&former).Error)

	agents, err := svc.GetActiveAgents()
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, models.RoleAgent, agents[0].Role)
}
