package services

import (
	"testing"

	"github.com/Vfxchu/Real-estate-Crm-sub005/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTransactionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransactionService(db, newTestConfig(), nil)

	err := svc.CreateTransaction(&models.Transaction{Stage: models.TxStageOffer})
	require.Error(t, err)
	assert.Equal(t, "交易必须指定经纪人", err.Error())

	err = svc.CreateTransaction(&models.Transaction{AgentID: "agent-1", Stage: "haggling"})
	require.Error(t, err)
	assert.Equal(t, "交易阶段无效", err.Error())

	tx := models.Transaction{AgentID: "agent-1"}
	require.NoError(t, svc.CreateTransaction(&tx))
	assert.Equal(t, models.TxStageOffer, tx.Stage)
}

func TestUpdateTransactionStageStampsClosedAt(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransactionService(db, newTestConfig(), nil)

	tx := models.Transaction{AgentID: "agent-1", Stage: models.TxStageClosing}
	require.NoError(t, svc.CreateTransaction(&tx))
	assert.Nil(t, tx.ClosedAt)

	updated, err := svc.UpdateTransactionStage(tx.ID, models.TxStageClosed)
	require.NoError(t, err)
	assert.Equal(t, models.TxStageClosed, updated.Stage)
	assert.NotNil(t, updated.ClosedAt)
	assert.False(t, updated.IsOpen())
}

func TestUpdateTransactionStageRecomputesContact(t *testing.T) {
	db := newTestDB(t)
	cfg := newTestConfig()
	contacts := NewContactService(db, cfg, nil)
	svc := NewTransactionService(db, cfg, contacts)

	contact := models.Contact{Name: "Buyer One", StatusEffective: models.ContactStatusPast}
	require.NoError(t, db.Create(&contact).Error)

	// 新开交易让沉寂的联系人重新变为活跃
	tx := models.Transaction{AgentID: "agent-1", ContactID: &contact.ID}
	require.NoError(t, svc.CreateTransaction(&tx))

	got, err := contacts.GetContactByID(contact.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusActive, got.StatusEffective)

	// 交易失败后联系人不再有活跃依据
	_, err = svc.UpdateTransactionStage(tx.ID, models.TxStageFellThrough)
	require.NoError(t, err)

	got, err = contacts.GetContactByID(contact.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusPast, got.StatusEffective)
}

func TestGetTransactionsFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransactionService(db, newTestConfig(), nil)

	seed := []models.Transaction{
		{AgentID: "agent-1", Stage: models.TxStageOffer},
		{AgentID: "agent-1", Stage: models.TxStageClosed},
		{AgentID: "agent-2", Stage: models.TxStageOffer},
	}
	for i := range seed {
		require.NoError(t, svc.CreateTransaction(&seed[i]))
	}

	transactions, total, err := svc.GetTransactions(1, 10, "agent-1", models.TxStageOffer)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, transactions, 1)
	assert.Equal(t, "agent-1", transactions[0].AgentID)
}

func TestGetTransactionByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewTransactionService(db, newTestConfig(), nil)

	_, err := svc.GetTransactionByID("no-such-tx")
	require.Error(t, err)
	assert.Equal(t, "交易不存在", err.Error())
}
